package system

import (
	"math"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

type pairKey struct {
	rule int
	a    ecs.Entity
	b    ecs.Entity
}

// InteractionSystem moves every enabled entity with a velocity, resolving
// collide rules per axis, then evaluates the overlap rules. A callback fires
// at most once per pair and rule each tick.
type InteractionSystem struct {
	deps     *Deps
	items    *Interactables
	triggers *Triggers
	log      *zap.Logger

	// ThrowDistance is how far a thrown pot flies before it shatters.
	ThrowDistance float64

	rules []rule
	seen  mapset.Set[pairKey]
}

func NewInteractionSystem(deps *Deps, items *Interactables, triggers *Triggers, throwDistance float64) *InteractionSystem {
	s := &InteractionSystem{
		deps:          deps,
		items:         items,
		triggers:      triggers,
		log:           deps.log().Named("interaction"),
		ThrowDistance: throwDistance,
		seen:          mapset.New[pairKey](),
	}
	s.rules = s.buildRules()
	return s
}

func (s *InteractionSystem) Update(w *ecs.World) {
	if w == nil || paused(w) {
		return
	}
	s.seen = mapset.New[pairKey]()

	if player, ok := playerEntity(w); ok {
		ecs.Update(w, player, component.PlayerComponent, func(p *component.Player) {
			p.Contacts = p.Contacts[:0]
		})
	}

	dt := deltaMS(w) / 1000
	for _, e := range w.Query(component.VelocityComponent.Kind(), component.TransformComponent.Kind()) {
		if !enabled(w, e) {
			continue
		}
		v, _ := ecs.Get(w, e, component.VelocityComponent)
		if v.X == 0 && v.Y == 0 {
			continue
		}
		blockedX, blockedY := s.move(w, e, v.X*dt, v.Y*dt)
		if ecs.Has(w, e, component.EnemyComponent) {
			ecs.Update(w, e, component.EnemyComponent, func(en *component.Enemy) {
				en.BlockedX, en.BlockedY = blockedX, blockedY
			})
		}
		s.advancePot(w, e, math.Hypot(v.X*dt, v.Y*dt))
	}

	s.clearCooldown(w)
	for i, r := range s.rules {
		if r.kind == ruleOverlap {
			s.overlap(w, i, r)
		}
	}
	s.releaseSwitches(w)
}

// move applies dx then dy, stopping each axis at the first solid. Solids the
// mover already overlaps do not block it, so an entity can walk out of them.
func (s *InteractionSystem) move(w *ecs.World, e ecs.Entity, dx, dy float64) (blockedX, blockedY bool) {
	if dx != 0 {
		blockedX = s.moveAxis(w, e, dx, true)
	}
	if dy != 0 && w.IsAlive(e) {
		blockedY = s.moveAxis(w, e, dy, false)
	}
	return blockedX, blockedY
}

func (s *InteractionSystem) moveAxis(w *ecs.World, e ecs.Entity, d float64, horizontal bool) bool {
	prev, ok := bodyAABB(w, e)
	if !ok {
		return false
	}
	next := prev.Offset(d, 0)
	if !horizontal {
		next = prev.Offset(0, d)
	}

	limit := d
	blocked := false
	stop := func(o component.AABB) {
		blocked = true
		limit = clampTo(limit, prev, o, horizontal)
	}

	pw := w.PhysicsWorld()
	for i, r := range s.rules {
		if r.kind != ruleCollide {
			continue
		}
		if r.terrain != 0 {
			if !inGroup(w, e, r.a) {
				continue
			}
			for _, o := range pw.Blockers(r.terrain, next) {
				if o.Overlaps(prev) {
					continue
				}
				stop(o)
				s.fire(w, i, r, e, 0)
			}
			continue
		}
		if inGroup(w, e, r.a) {
			for _, o := range members(w, r.b) {
				if s.collides(w, r, e, o, prev, next, r.b) {
					stop(mustRect(w, o, r.b))
					s.fire(w, i, r, e, o)
				}
			}
		}
		if inGroup(w, e, r.b) {
			for _, o := range members(w, r.a) {
				if s.collides(w, r, o, e, prev, next, r.a) {
					stop(mustRect(w, o, r.a))
					s.fire(w, i, r, o, e)
				}
			}
		}
	}

	if !w.IsAlive(e) {
		return blocked
	}
	ecs.Update(w, e, component.TransformComponent, func(t *component.Transform) {
		if horizontal {
			t.X += limit
		} else {
			t.Y += limit
		}
	})
	return blocked
}

// collides checks whether the mover's step from prev to next runs into
// other. a and b are the rule's sides, one of which is the mover.
func (s *InteractionSystem) collides(w *ecs.World, r rule, a, b ecs.Entity, prev, next component.AABB, otherGroup group) bool {
	if a == b {
		return false
	}
	other := b
	if otherGroup == r.a {
		other = a
	}
	o, ok := rectOf(w, other, otherGroup)
	if !ok || !next.Overlaps(o) || prev.Overlaps(o) {
		return false
	}
	return r.process == nil || r.process(w, a, b)
}

func mustRect(w *ecs.World, e ecs.Entity, g group) component.AABB {
	r, _ := rectOf(w, e, g)
	return r
}

// clampTo shortens a step so the mover ends flush against o.
func clampTo(limit float64, prev, o component.AABB, horizontal bool) float64 {
	var gap float64
	switch {
	case horizontal && limit > 0:
		gap = o.X - (prev.X + prev.W)
	case horizontal:
		gap = o.X + o.W - prev.X
	case limit > 0:
		gap = o.Y - (prev.Y + prev.H)
	default:
		gap = o.Y + o.H - prev.Y
	}
	if limit > 0 {
		return math.Max(0, math.Min(limit, gap))
	}
	return math.Min(0, math.Max(limit, gap))
}

func (s *InteractionSystem) overlap(w *ecs.World, i int, r rule) {
	for _, a := range members(w, r.a) {
		ra, ok := rectOf(w, a, r.a)
		if !ok {
			continue
		}
		for _, b := range members(w, r.b) {
			if a == b || !inGroup(w, a, r.a) || !inGroup(w, b, r.b) {
				continue
			}
			rb, ok := rectOf(w, b, r.b)
			if !ok || !ra.Overlaps(rb) {
				continue
			}
			if r.process != nil && !r.process(w, a, b) {
				continue
			}
			s.fire(w, i, r, a, b)
		}
	}
}

func (s *InteractionSystem) fire(w *ecs.World, i int, r rule, a, b ecs.Entity) {
	if r.on == nil {
		return
	}
	key := pairKey{rule: i, a: a, b: b}
	if s.seen.Has(key) {
		return
	}
	s.seen.Put(key)
	r.on(w, a, b)
}

// advancePot breaks a thrown pot once it has flown its full distance.
func (s *InteractionSystem) advancePot(w *ecs.World, e ecs.Entity, step float64) {
	pot, ok := ecs.Get(w, e, component.PotComponent)
	if !ok || pot.Broken || !pot.Thrown {
		return
	}
	pot.Traveled += step
	_ = ecs.Add(w, e, component.PotComponent, pot)
	if s.ThrowDistance > 0 && pot.Traveled >= s.ThrowDistance {
		s.items.BreakPot(w, e)
	}
}

func (s *InteractionSystem) touchBlocking(w *ecs.World, player, other ecs.Entity) {
	if !ecs.Has(w, player, component.PlayerTagComponent) {
		return
	}
	ecs.Update(w, player, component.PlayerComponent, func(p *component.Player) {
		p.Contacts = append(p.Contacts, other.Raw())
	})
}

func (s *InteractionSystem) enterDoorZone(w *ecs.World, player, doorEnt ecs.Entity) {
	_, state, ok := sceneState(w)
	if !ok || state.InputLocked || transitionPending(w, player) {
		return
	}
	door, _ := ecs.Get(w, doorEnt, component.DoorComponent)
	if cd, ok := ecs.Get(w, player, component.TransitionCooldownComponent); ok && cd.Active &&
		cd.RoomID == door.RoomID && cd.DoorID == door.ID {
		return
	}
	_ = ecs.Add(w, player, component.TransitionIntentComponent, component.TransitionIntent{
		SourceRoomID: door.RoomID,
		SourceDoorID: door.ID,
	})
	s.log.Debug("transition intent", zap.Int("room", door.RoomID), zap.Int("door", door.ID))
}

func transitionPending(w *ecs.World, player ecs.Entity) bool {
	if ecs.Has(w, player, component.TransitionIntentComponent) {
		return true
	}
	sceneEnt, _, ok := sceneState(w)
	return ok && ecs.Has(w, sceneEnt, component.TransitionRuntimeComponent)
}

// clearCooldown forgets the arrival door once the player is out of its zone.
func (s *InteractionSystem) clearCooldown(w *ecs.World) {
	player, ok := playerEntity(w)
	if !ok {
		return
	}
	cd, ok := ecs.Get(w, player, component.TransitionCooldownComponent)
	if !ok || !cd.Active {
		return
	}
	body, _ := bodyAABB(w, player)
	if doorEnt, ok := s.deps.Registry.Door(cd.RoomID, cd.DoorID); ok && enabled(w, doorEnt) {
		door, _ := ecs.Get(w, doorEnt, component.DoorComponent)
		if body.Overlaps(door.Zone) {
			return
		}
	}
	_ = ecs.Add(w, player, component.TransitionCooldownComponent, component.TransitionCooldown{})
}

func (s *InteractionSystem) pressSwitch(w *ecs.World, _, e ecs.Entity) {
	sw, _ := ecs.Get(w, e, component.SwitchComponent)
	sw.TouchTick = tick(w)
	wasPressed := sw.Pressed
	sw.Pressed = true
	_ = ecs.Add(w, e, component.SwitchComponent, sw)
	if wasPressed {
		return
	}
	s.triggers.SwitchPressed(w, component.SwitchPress{
		RoomID:    sw.RoomID,
		SwitchID:  sw.ID,
		Action:    sw.Action,
		TargetIDs: sw.TargetIDs,
	})
}

// releaseSwitches unlatches switches the player stepped off this tick.
func (s *InteractionSystem) releaseSwitches(w *ecs.World) {
	now := tick(w)
	for _, e := range w.Query(component.SwitchComponent.Kind()) {
		sw, _ := ecs.Get(w, e, component.SwitchComponent)
		if sw.Pressed && sw.TouchTick != now {
			sw.Pressed = false
			_ = ecs.Add(w, e, component.SwitchComponent, sw)
		}
	}
}
