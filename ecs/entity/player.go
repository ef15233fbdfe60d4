package entity

import (
	"fmt"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/prefabs"
)

// NewPlayerAt creates the player with its sword hitbox at x,y (top-left).
func NewPlayerAt(w *ecs.World, spec *prefabs.PlayerSpec, x, y float64) (player, sword ecs.Entity, err error) {
	if spec == nil {
		return 0, 0, fmt.Errorf("player: nil spec")
	}
	player = w.CreateEntity()
	if err := ecs.Add(w, player, component.PlayerTagComponent, component.PlayerTag{}); err != nil {
		return 0, 0, fmt.Errorf("player: add player tag: %w", err)
	}
	if err := ecs.Add(w, player, component.PlayerComponent, component.Player{Facing: component.DirDown}); err != nil {
		return 0, 0, fmt.Errorf("player: add player component: %w", err)
	}
	if err := ecs.Add(w, player, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		return 0, 0, fmt.Errorf("player: add transform: %w", err)
	}
	if err := ecs.Add(w, player, component.VelocityComponent, component.Velocity{}); err != nil {
		return 0, 0, fmt.Errorf("player: add velocity: %w", err)
	}
	if err := ecs.Add(w, player, component.ColliderComponent, component.Collider{
		Width:  spec.Size.Width,
		Height: spec.Size.Height,
	}); err != nil {
		return 0, 0, fmt.Errorf("player: add collider: %w", err)
	}
	if err := ecs.Add(w, player, component.InputComponent, component.Input{}); err != nil {
		return 0, 0, fmt.Errorf("player: add input: %w", err)
	}
	if err := ecs.Add(w, player, component.HealthComponent, component.Health{Life: spec.Health, Max: spec.Health}); err != nil {
		return 0, 0, fmt.Errorf("player: add health: %w", err)
	}
	if err := ecs.Add(w, player, component.TransitionCooldownComponent, component.TransitionCooldown{}); err != nil {
		return 0, 0, fmt.Errorf("player: add transition cooldown: %w", err)
	}

	sword = w.CreateEntity()
	if err := ecs.Add(w, sword, component.WeaponComponent, component.Weapon{
		Owner:  player.Raw(),
		Damage: spec.Attack.Damage,
	}); err != nil {
		return 0, 0, fmt.Errorf("player: add sword: %w", err)
	}
	if err := ecs.Add(w, sword, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		return 0, 0, fmt.Errorf("player: add sword transform: %w", err)
	}
	if err := ecs.Add(w, sword, component.ColliderComponent, component.Collider{
		Width:  spec.Attack.Reach,
		Height: spec.Attack.Reach,
	}); err != nil {
		return 0, 0, fmt.Errorf("player: add sword collider: %w", err)
	}
	return player, sword, nil
}

// StartPosition places a body of size w,h offset units into the room from
// the zone of the door it enters through. Without a matching door it
// centers the body in the room.
func StartPosition(g *levels.Geometry, roomID, doorID int, offset, w, h float64) (float64, float64, bool) {
	room, ok := g.Room(roomID)
	if !ok {
		return 0, 0, false
	}
	for _, d := range room.Doors {
		if d.ID != doorID {
			continue
		}
		cx, cy := d.Rect.AABB().Center()
		dx, dy := d.Direction.Unit()
		// the player walks in against the door's direction
		return cx - dx*offset - w/2, cy - dy*offset - h/2, true
	}
	cx, cy := room.Bounds.AABB().Center()
	return cx - w/2, cy - h/2, true
}
