package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/prefabs"
)

// reachDepth is how far in front of the player interact and throw look.
const reachDepth = 4

// PlayerControlSystem turns the frame's input into player velocity, facing,
// sword swings, chest interaction and pot throws.
type PlayerControlSystem struct {
	deps *Deps
	spec *prefabs.PlayerSpec
	log  *zap.Logger
}

func NewPlayerControlSystem(deps *Deps, spec *prefabs.PlayerSpec) *PlayerControlSystem {
	return &PlayerControlSystem{deps: deps, spec: spec, log: deps.log().Named("player")}
}

func (s *PlayerControlSystem) Update(w *ecs.World) {
	if w == nil || paused(w) {
		return
	}
	player, ok := playerEntity(w)
	if !ok {
		return
	}
	in, _ := ecs.Get(w, player, component.InputComponent)
	p, _ := ecs.Get(w, player, component.PlayerComponent)
	_, state, _ := sceneState(w)

	if state.InputLocked || p.Defeated {
		_ = ecs.Add(w, player, component.VelocityComponent, component.Velocity{})
		s.placeSword(w, player, p.Facing)
		return
	}

	vx, vy := in.MoveX, in.MoveY
	if l := math.Hypot(vx, vy); l > 1 {
		vx, vy = vx/l, vy/l
	}
	_ = ecs.Add(w, player, component.VelocityComponent, component.Velocity{
		X: vx * s.spec.MoveSpeed,
		Y: vy * s.spec.MoveSpeed,
	})
	if f, ok := facingOf(vx, vy); ok {
		p.Facing = f
	}

	if in.Attack && p.AttackMS <= 0 {
		p.AttackMS = s.spec.Attack.DurationMS
		if sword, ok := swordOf(w, player); ok {
			ecs.Update(w, sword, component.WeaponComponent, func(wp *component.Weapon) { wp.Active = true })
		}
	}
	_ = ecs.Add(w, player, component.PlayerComponent, p)
	s.placeSword(w, player, p.Facing)

	if in.Interact {
		s.interact(w, player, p)
	}
	if in.Throw {
		s.throw(w, player, p)
	}
}

// facingOf picks the dominant axis of a move. Ties go to the horizontal.
func facingOf(vx, vy float64) (component.Direction, bool) {
	switch {
	case vx == 0 && vy == 0:
		return "", false
	case math.Abs(vx) >= math.Abs(vy) && vx > 0:
		return component.DirRight, true
	case math.Abs(vx) >= math.Abs(vy):
		return component.DirLeft, true
	case vy > 0:
		return component.DirDown, true
	default:
		return component.DirUp, true
	}
}

func swordOf(w *ecs.World, player ecs.Entity) (ecs.Entity, bool) {
	for _, e := range w.Query(component.WeaponComponent.Kind()) {
		wp, _ := ecs.Get(w, e, component.WeaponComponent)
		if !wp.Hostile && wp.Owner == player.Raw() {
			return e, true
		}
	}
	return 0, false
}

// placeSword keeps the sword hitbox centered on the player's facing edge.
func (s *PlayerControlSystem) placeSword(w *ecs.World, player ecs.Entity, facing component.Direction) {
	sword, ok := swordOf(w, player)
	if !ok {
		return
	}
	body, ok := bodyAABB(w, player)
	if !ok || facing == "" {
		return
	}
	reach := s.spec.Attack.Reach
	cx, cy := body.Center()
	dx, dy := facing.Unit()
	cx += dx * (body.W/2 + reach/2)
	cy += dy * (body.H/2 + reach/2)
	_ = ecs.Add(w, sword, component.TransformComponent, component.Transform{X: cx - reach/2, Y: cy - reach/2})
}

// frontStrip is a thin strip in front of the player.
func frontStrip(body component.AABB, facing component.Direction) component.AABB {
	switch facing {
	case component.DirUp:
		return component.AABB{X: body.X, Y: body.Y - reachDepth, W: body.W, H: reachDepth}
	case component.DirDown:
		return component.AABB{X: body.X, Y: body.Y + body.H, W: body.W, H: reachDepth}
	case component.DirLeft:
		return component.AABB{X: body.X - reachDepth, Y: body.Y, W: reachDepth, H: body.H}
	default:
		return component.AABB{X: body.X + body.W, Y: body.Y, W: reachDepth, H: body.H}
	}
}

// facingTarget finds an accepted, enabled entity in front of the player or
// among the entities it pushed against this tick.
func facingTarget(w *ecs.World, player ecs.Entity, p component.Player, accept func(ecs.Entity) bool) (ecs.Entity, bool) {
	for _, id := range p.Contacts {
		e := ecs.EntityOf(id)
		if enabled(w, e) && accept(e) {
			return e, true
		}
	}
	body, ok := bodyAABB(w, player)
	if !ok {
		return 0, false
	}
	front := frontStrip(body, p.Facing)
	for _, e := range w.Query(component.TransformComponent.Kind(), component.ColliderComponent.Kind()) {
		if e == player || !enabled(w, e) || !accept(e) {
			continue
		}
		if r, ok := bodyAABB(w, e); ok && r.Overlaps(front) {
			return e, true
		}
	}
	return 0, false
}

func (s *PlayerControlSystem) interact(w *ecs.World, player ecs.Entity, p component.Player) {
	e, ok := facingTarget(w, player, p, func(e ecs.Entity) bool {
		c, ok := ecs.Get(w, e, component.ChestComponent)
		return ok && c.Revealed && !c.Opened
	})
	if !ok {
		return
	}
	chest, _ := ecs.Get(w, e, component.ChestComponent)
	s.log.Debug("chest interact", zap.Int("room", chest.RoomID), zap.Int("chest", chest.ID))
	s.deps.publish(event.ChestOpened, event.Chest{RoomID: chest.RoomID, ChestID: chest.ID})
}

func (s *PlayerControlSystem) throw(w *ecs.World, player ecs.Entity, p component.Player) {
	e, ok := facingTarget(w, player, p, func(e ecs.Entity) bool {
		pot, ok := ecs.Get(w, e, component.PotComponent)
		return ok && !pot.Broken && !pot.Thrown
	})
	if !ok {
		return
	}
	dx, dy := p.Facing.Unit()
	ecs.Update(w, e, component.PotComponent, func(pot *component.Pot) {
		pot.Thrown = true
		pot.Traveled = 0
	})
	_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{X: dx * s.spec.Throw.Speed, Y: dy * s.spec.Throw.Speed})
}
