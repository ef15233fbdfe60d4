package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/room"
	"github.com/milk9111/dungeon/store"
	"github.com/milk9111/dungeon/tween"
)

// Deps are the collaborators shared by the room-graph systems. They are
// fixed for the lifetime of one level.
type Deps struct {
	Ctx       context.Context
	Level     string
	Registry  *room.Registry
	Store     store.Persistence
	Inventory store.Inventory
	Bus       *event.Bus
	Minter    *loot.Minter
	Tweens    *tween.Manager
	Logger    *zap.Logger
}

func (d *Deps) ctx() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}

func (d *Deps) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Deps) publish(topic event.Topic, payload any) {
	if d.Bus != nil {
		d.Bus.Publish(topic, payload)
	}
}

// bodyAABB returns the world rectangle of an entity's collider.
func bodyAABB(w *ecs.World, e ecs.Entity) (component.AABB, bool) {
	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return component.AABB{}, false
	}
	col, ok := ecs.Get(w, e, component.ColliderComponent)
	if !ok || col.Width <= 0 || col.Height <= 0 {
		return component.AABB{}, false
	}
	return component.AABB{X: tr.X, Y: tr.Y, W: col.Width, H: col.Height}, true
}

func enabled(w *ecs.World, e ecs.Entity) bool {
	return w.IsAlive(e) && !ecs.Has(w, e, component.DisabledComponent)
}

// sceneState returns the scene singleton.
func sceneState(w *ecs.World) (ecs.Entity, component.SceneState, bool) {
	e, ok := w.First(component.SceneStateComponent.Kind())
	if !ok {
		return 0, component.SceneState{}, false
	}
	s, ok := ecs.Get(w, e, component.SceneStateComponent)
	return e, s, ok
}

func updateScene(w *ecs.World, fn func(*component.SceneState)) {
	if e, ok := w.First(component.SceneStateComponent.Kind()); ok {
		ecs.Update(w, e, component.SceneStateComponent, fn)
	}
}

func deltaMS(w *ecs.World) float64 {
	e, ok := w.First(component.ClockComponent.Kind())
	if !ok {
		return 0
	}
	c, _ := ecs.Get(w, e, component.ClockComponent)
	return c.DeltaMS
}

func tick(w *ecs.World) uint64 {
	e, ok := w.First(component.ClockComponent.Kind())
	if !ok {
		return 0
	}
	c, _ := ecs.Get(w, e, component.ClockComponent)
	return c.Tick
}

func playerEntity(w *ecs.World) (ecs.Entity, bool) {
	return w.First(component.PlayerTagComponent.Kind())
}

func paused(w *ecs.World) bool {
	_, s, ok := sceneState(w)
	return ok && s.Paused
}
