package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/store"
	"github.com/milk9111/dungeon/tween"
)

type harness struct {
	w        *ecs.World
	deps     *Deps
	catalog  *prefabs.Catalog
	items    *Interactables
	triggers *Triggers
	trans    *TransitionSystem
	scene    ecs.Entity
	player   ecs.Entity
	sword    ecs.Entity
	minted   []loot.Kind
	events   []event.Event
}

type harnessOptions struct {
	store     store.Persistence
	inventory store.Inventory
}

// newHarness builds CAVE with the player at the door 10 spawn of room 1 and
// every system registered in scene order.
func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	if opts.store == nil {
		mem := store.NewMemory()
		opts.store = mem
		if opts.inventory == nil {
			opts.inventory = mem
		}
	}
	g, err := levels.LoadLevelFromFS("cave")
	require.NoError(t, err)
	catalog, err := prefabs.LoadCatalog()
	require.NoError(t, err)

	h := &harness{w: ecs.NewWorld(), catalog: catalog}
	reg, err := entity.BuildLevel(h.w, entity.LevelOptions{
		Context:  context.Background(),
		Geometry: g,
		Catalog:  catalog,
		Store:    opts.store,
	})
	require.NoError(t, err)

	bus := event.NewBus()
	for _, topic := range []event.Topic{
		event.ChestOpened, event.EnemyDestroyed, event.BossDefeated, event.PlayerDefeated,
		event.PotBroken, event.LevelChange,
	} {
		bus.Subscribe(topic, func(e event.Event) { h.events = append(h.events, e) })
	}

	h.deps = &Deps{
		Ctx:       context.Background(),
		Level:     g.Name,
		Registry:  reg,
		Store:     opts.store,
		Inventory: opts.inventory,
		Bus:       bus,
		Minter: loot.NewMinter(func(_ context.Context, kind loot.Kind, _ loot.Preset) error {
			h.minted = append(h.minted, kind)
			return nil
		}, nil),
		Tweens: tween.NewManager(),
		Logger: zaptest.NewLogger(t),
	}

	h.scene, err = entity.NewSceneState(h.w, g.Name, 1)
	require.NoError(t, err)
	x, y, ok := entity.StartPosition(g, 1, 10, catalog.Player.StartOffset, catalog.Player.Size.Width, catalog.Player.Size.Height)
	require.True(t, ok)
	h.player, h.sword, err = entity.NewPlayerAt(h.w, catalog.Player, x, y)
	require.NoError(t, err)
	r1, _ := reg.Room(1)
	_, err = entity.NewCamera(h.w, catalog.Scene.Camera, r1.Bounds)
	require.NoError(t, err)

	h.items = NewInteractables(h.deps, catalog)
	h.triggers = NewTriggers(h.deps, h.items)
	h.items.EnableRoom(h.w, 1)

	h.trans = NewTransitionSystem(h.deps, h.items, h.triggers, catalog.Scene.Transition, catalog.Scene.Camera)
	h.trans.LevelExists = levels.Exists

	h.w.AddSystem(NewPlayerControlSystem(h.deps, catalog.Player))
	h.w.AddSystem(NewEnemyAISystem(h.deps, catalog))
	h.w.AddSystem(NewInteractionSystem(h.deps, h.items, h.triggers, catalog.Player.Throw.Distance))
	h.w.AddSystem(h.trans)
	h.w.AddSystem(NewTweenSystem(h.deps))
	h.w.AddSystem(NewCameraSystem(catalog.Scene.Camera))
	h.w.AddSystem(NewTimerSystem())
	return h
}

// step runs n ticks with the given input held.
func (h *harness) step(n int, in component.Input) {
	for i := 0; i < n; i++ {
		ecs.Update(h.w, h.scene, component.ClockComponent, func(c *component.Clock) {
			c.Tick++
			c.DeltaMS = h.catalog.Scene.TickMS
		})
		_ = ecs.Add(h.w, h.player, component.InputComponent, in)
		h.w.Update()
	}
}

func (h *harness) state() component.SceneState {
	s, _ := ecs.Get(h.w, h.scene, component.SceneStateComponent)
	return s
}

func (h *harness) moveTo(e ecs.Entity, x, y float64) {
	_ = ecs.Add(h.w, e, component.TransformComponent, component.Transform{X: x, Y: y})
}

// enter makes roomID the current room without animating.
func (h *harness) enter(roomID int) {
	h.items.DisableRoom(h.w, h.state().CurrentRoomID)
	h.items.EnableRoom(h.w, roomID)
	updateScene(h.w, func(s *component.SceneState) { s.CurrentRoomID = roomID })
	rm, _ := h.deps.Registry.Room(roomID)
	updateCamera(h.w, func(c *component.Camera) { c.Bounds = rm.Bounds })
}

func (h *harness) topics() []event.Topic {
	out := make([]event.Topic, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Topic)
	}
	return out
}

func (h *harness) door(roomID, doorID int) (ecs.Entity, component.Door) {
	e, _ := h.deps.Registry.Door(roomID, doorID)
	d, _ := ecs.Get(h.w, e, component.DoorComponent)
	return e, d
}

func (h *harness) chest(roomID, chestID int) (ecs.Entity, component.Chest) {
	e, _ := h.deps.Registry.Chest(roomID, chestID)
	c, _ := ecs.Get(h.w, e, component.ChestComponent)
	return e, c
}
