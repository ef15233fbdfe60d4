// Package dungeon assembles a playable level: it builds the room graph,
// owns the world and its systems, and answers the scene-level events that
// the UI and game objects publish.
package dungeon

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/ecs/entity"
	"github.com/milk9111/dungeon/ecs/system"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/logger"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/room"
	"github.com/milk9111/dungeon/store"
	"github.com/milk9111/dungeon/tween"
)

var ErrNoStartRoom = errors.New("dungeon: start room not found")

// Options configure a scene. Only Level is required; everything else has a
// usable default.
type Options struct {
	Context context.Context
	Level   string
	RoomID  int
	DoorID  int

	// Geometry overrides the embedded level named by Level.
	Geometry *levels.Geometry
	Catalog  *prefabs.Catalog

	Store     store.Persistence
	Inventory store.Inventory
	Mint      loot.MintFunc
	Bus       *event.Bus
	Logger    *zap.Logger

	// LevelExists decides whether a cross-level door can be taken.
	LevelExists func(name string) bool
}

// Scene is one loaded level.
type Scene struct {
	w        *ecs.World
	deps     *system.Deps
	catalog  *prefabs.Catalog
	items    *system.Interactables
	triggers *system.Triggers
	log      *zap.Logger

	state  ecs.Entity
	player ecs.Entity
	camera ecs.Entity

	subs []event.Subscription

	// quizChest is the small-key chest waiting for a quiz answer.
	quizChest ecs.Entity
	// dialogOpen is set while a reward dialog pauses the scene.
	dialogOpen bool
	gameOver   bool
}

// New loads the level, places the player at the start door and enables the
// start room.
func New(opts Options) (*Scene, error) {
	log := logger.Or(opts.Logger).Named("scene")
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	g := opts.Geometry
	if g == nil {
		var err error
		if g, err = levels.LoadLevelFromFS(opts.Level); err != nil {
			return nil, fmt.Errorf("dungeon: load level %s: %w", opts.Level, err)
		}
	}
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = prefabs.LoadCatalog(); err != nil {
			return nil, fmt.Errorf("dungeon: load prefabs: %w", err)
		}
	}
	if opts.Store == nil && opts.Inventory == nil {
		mem := store.NewMemory()
		opts.Store, opts.Inventory = mem, mem
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	levelExists := opts.LevelExists
	if levelExists == nil {
		levelExists = levels.Exists
	}

	w := ecs.NewWorld()
	reg, err := entity.BuildLevel(w, entity.LevelOptions{
		Context:  ctx,
		Geometry: g,
		Catalog:  catalog,
		Store:    opts.Store,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	start, ok := reg.Room(opts.RoomID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoStartRoom, opts.RoomID)
	}

	s := &Scene{w: w, catalog: catalog, log: log}
	s.deps = &system.Deps{
		Ctx:       ctx,
		Level:     g.Name,
		Registry:  reg,
		Store:     opts.Store,
		Inventory: opts.Inventory,
		Bus:       bus,
		Minter:    loot.NewMinter(opts.Mint, log),
		Tweens:    tween.NewManager(),
		Logger:    log,
	}

	if s.state, err = entity.NewSceneState(w, g.Name, start.ID); err != nil {
		return nil, err
	}
	ps := catalog.Player
	x, y, _ := entity.StartPosition(g, start.ID, opts.DoorID, ps.StartOffset, ps.Size.Width, ps.Size.Height)
	if s.player, _, err = entity.NewPlayerAt(w, ps, x, y); err != nil {
		return nil, err
	}
	if s.camera, err = entity.NewCamera(w, catalog.Scene.Camera, start.Bounds); err != nil {
		return nil, err
	}

	s.items = system.NewInteractables(s.deps, catalog)
	s.triggers = system.NewTriggers(s.deps, s.items)
	transition := system.NewTransitionSystem(s.deps, s.items, s.triggers, catalog.Scene.Transition, catalog.Scene.Camera)
	transition.LevelExists = levelExists

	w.AddSystem(system.NewPlayerControlSystem(s.deps, ps))
	w.AddSystem(system.NewEnemyAISystem(s.deps, catalog))
	w.AddSystem(system.NewInteractionSystem(s.deps, s.items, s.triggers, ps.Throw.Distance))
	w.AddSystem(transition)
	w.AddSystem(system.NewTweenSystem(s.deps))
	w.AddSystem(system.NewCameraSystem(catalog.Scene.Camera))
	w.AddSystem(system.NewTimerSystem())

	s.items.EnableRoom(w, start.ID)
	s.triggers.CheckRoomCleared(w)
	s.subscribe(bus)

	log.Info("scene ready",
		zap.String("level", g.Name),
		zap.Int("room", start.ID),
		zap.Int("door", opts.DoorID),
		zap.Int("warnings", len(g.Warnings)))
	return s, nil
}

// Tick advances the scene by one fixed step with the frame's input.
func (s *Scene) Tick(in component.Input) {
	ecs.Update(s.w, s.state, component.ClockComponent, func(c *component.Clock) {
		c.Tick++
		c.DeltaMS = s.catalog.Scene.TickMS
	})
	_ = ecs.Add(s.w, s.player, component.InputComponent, in)
	s.w.Update()
}

// Teardown detaches the scene from the bus and drops pending tweens. The
// scene must not be ticked afterwards.
func (s *Scene) Teardown() {
	for _, sub := range s.subs {
		s.deps.Bus.Unsubscribe(sub)
	}
	s.subs = nil
	s.deps.Tweens.Clear()
}

func (s *Scene) World() *ecs.World { return s.w }
func (s *Scene) Registry() *room.Registry { return s.deps.Registry }
func (s *Scene) Bus() *event.Bus { return s.deps.Bus }
func (s *Scene) Player() ecs.Entity { return s.player }
func (s *Scene) Catalog() *prefabs.Catalog { return s.catalog }
func (s *Scene) Interactables() *system.Interactables { return s.items }

func (s *Scene) State() component.SceneState {
	st, _ := ecs.Get(s.w, s.state, component.SceneStateComponent)
	return st
}

func (s *Scene) Camera() component.Camera {
	c, _ := ecs.Get(s.w, s.camera, component.CameraComponent)
	return c
}

func (s *Scene) Reward() component.Reward {
	r, _ := ecs.Get(s.w, s.state, component.RewardComponent)
	return r
}

// LevelChange returns the pending request to load another level.
func (s *Scene) LevelChange() (component.LevelChangeRequest, bool) {
	return ecs.Get(s.w, s.state, component.LevelChangeRequestComponent)
}

func (s *Scene) updateState(fn func(*component.SceneState)) {
	ecs.Update(s.w, s.state, component.SceneStateComponent, fn)
}
