package entity

import (
	"fmt"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/prefabs"
)

// NewEnemy creates an enemy of the given species with its top-left at x,y.
func NewEnemy(w *ecs.World, spec *prefabs.EnemySpec, species component.Species, roomID int, x, y float64) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("enemy: no prefab for %s", species)
	}
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.EnemyComponent, component.Enemy{
		Species: species,
		RoomID:  roomID,
		Alive:   true,
		HomeX:   x,
		HomeY:   y,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy component: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent, component.Velocity{}); err != nil {
		return 0, fmt.Errorf("enemy: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent, component.Collider{
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add collider: %w", err)
	}
	if err := ecs.Add(w, e, component.HealthComponent, component.Health{Life: spec.Health, Max: spec.Health}); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.ScriptComponent, component.Script{Name: spec.Script}); err != nil {
			return 0, fmt.Errorf("enemy: add script: %w", err)
		}
	}
	return e, nil
}

// NewProjectile fires a hostile projectile from the center of its owner.
// Projectiles are not part of the room registry; they are destroyed when
// they hit something, time out, or their room is disabled.
func NewProjectile(w *ecs.World, spec *prefabs.ProjectileSpec, owner ecs.Entity, roomID int, cx, cy, dirX, dirY float64) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.WeaponComponent, component.Weapon{
		Owner:       owner.Raw(),
		Damage:      spec.Damage,
		Hostile:     true,
		Active:      true,
		RemainingMS: spec.LifetimeMS,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add weapon: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{
		X: cx - spec.Size.Width/2,
		Y: cy - spec.Size.Height/2,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent, component.Collider{
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add collider: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent, component.Velocity{
		X: dirX * spec.Speed,
		Y: dirY * spec.Speed,
	}); err != nil {
		return 0, fmt.Errorf("projectile: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.RoomMemberComponent, component.RoomMember{RoomID: roomID}); err != nil {
		return 0, fmt.Errorf("projectile: add room member: %w", err)
	}
	return e, nil
}
