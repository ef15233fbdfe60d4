package system

import (
	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

// group selects the entities a rule applies to. Membership is evaluated on
// live state, so an opened door leaves the blocking group immediately.
type group int

const (
	groupNone group = iota
	groupPlayer
	groupDoorZones
	groupBlocking
	groupSwitches
	groupLockedDoors
	groupEnemies
	groupPlayerWeapon
	groupEnemyWeapons
	groupThrownPots
)

type ruleKind int

const (
	// ruleCollide blocks the mover during movement, one axis at a time.
	ruleCollide ruleKind = iota
	// ruleOverlap never blocks and is evaluated after movement.
	ruleOverlap
)

// rule is one entry of the interaction table. Terrain rules set terrain and
// leave b empty; their callback receives a zero entity as b.
type rule struct {
	name    string
	kind    ruleKind
	a       group
	b       group
	terrain ecs.TerrainLayer
	process func(w *ecs.World, a, b ecs.Entity) bool
	on      func(w *ecs.World, a, b ecs.Entity)
}

func inGroup(w *ecs.World, e ecs.Entity, g group) bool {
	if !enabled(w, e) {
		return false
	}
	switch g {
	case groupPlayer:
		return ecs.Has(w, e, component.PlayerTagComponent)
	case groupDoorZones:
		door, ok := ecs.Get(w, e, component.DoorComponent)
		return ok && door.Open
	case groupBlocking:
		if door, ok := ecs.Get(w, e, component.DoorComponent); ok {
			return door.Blocking()
		}
		if pot, ok := ecs.Get(w, e, component.PotComponent); ok {
			return !pot.Broken
		}
		if chest, ok := ecs.Get(w, e, component.ChestComponent); ok {
			return chest.Revealed
		}
		return false
	case groupSwitches:
		return ecs.Has(w, e, component.SwitchComponent)
	case groupLockedDoors:
		door, ok := ecs.Get(w, e, component.DoorComponent)
		return ok && door.Locked()
	case groupEnemies:
		enemy, ok := ecs.Get(w, e, component.EnemyComponent)
		return ok && enemy.Alive
	case groupPlayerWeapon:
		weapon, ok := ecs.Get(w, e, component.WeaponComponent)
		return ok && weapon.Active && !weapon.Hostile
	case groupEnemyWeapons:
		weapon, ok := ecs.Get(w, e, component.WeaponComponent)
		return ok && weapon.Active && weapon.Hostile
	case groupThrownPots:
		pot, ok := ecs.Get(w, e, component.PotComponent)
		return ok && !pot.Broken && pot.Thrown
	default:
		return false
	}
}

func members(w *ecs.World, g group) []ecs.Entity {
	var candidates []ecs.Entity
	switch g {
	case groupPlayer:
		candidates = w.Query(component.PlayerTagComponent.Kind())
	case groupDoorZones, groupLockedDoors:
		candidates = w.Query(component.DoorComponent.Kind())
	case groupBlocking:
		candidates = append(candidates, w.Query(component.DoorComponent.Kind())...)
		candidates = append(candidates, w.Query(component.PotComponent.Kind())...)
		candidates = append(candidates, w.Query(component.ChestComponent.Kind())...)
	case groupSwitches:
		candidates = w.Query(component.SwitchComponent.Kind())
	case groupEnemies:
		candidates = w.Query(component.EnemyComponent.Kind())
	case groupPlayerWeapon, groupEnemyWeapons:
		candidates = w.Query(component.WeaponComponent.Kind())
	case groupThrownPots:
		candidates = w.Query(component.PotComponent.Kind())
	}
	out := candidates[:0]
	for _, e := range candidates {
		if inGroup(w, e, g) {
			out = append(out, e)
		}
	}
	return out
}

// rectOf is the shape an entity presents to a group. Doors present their
// transition zone to the zone group and their body everywhere else.
func rectOf(w *ecs.World, e ecs.Entity, g group) (component.AABB, bool) {
	if g == groupDoorZones {
		door, ok := ecs.Get(w, e, component.DoorComponent)
		return door.Zone, ok
	}
	return bodyAABB(w, e)
}

func isMovingPot(w *ecs.World, e ecs.Entity) bool {
	pot, ok := ecs.Get(w, e, component.PotComponent)
	if !ok || pot.Broken {
		return false
	}
	v, _ := ecs.Get(w, e, component.VelocityComponent)
	return v.X != 0 || v.Y != 0
}

// buildRules returns the fixed interaction table.
func (s *InteractionSystem) buildRules() []rule {
	return []rule{
		{
			name:    "player-terrain",
			kind:    ruleCollide,
			a:       groupPlayer,
			terrain: ecs.TerrainPlayer,
		},
		{
			name: "player-door-zone",
			kind: ruleOverlap,
			a:    groupPlayer,
			b:    groupDoorZones,
			on:   s.enterDoorZone,
		},
		{
			name: "player-blocking",
			kind: ruleCollide,
			a:    groupPlayer,
			b:    groupBlocking,
			on:   s.touchBlocking,
		},
		{
			name: "player-switch",
			kind: ruleOverlap,
			a:    groupPlayer,
			b:    groupSwitches,
			on:   s.pressSwitch,
		},
		{
			name: "player-locked-door",
			kind: ruleCollide,
			a:    groupPlayer,
			b:    groupLockedDoors,
			on: func(w *ecs.World, _, door ecs.Entity) {
				s.items.TryUnlock(w, door)
			},
		},
		{
			name:    "enemy-terrain",
			kind:    ruleCollide,
			a:       groupEnemies,
			terrain: ecs.TerrainEnemy,
		},
		{
			name: "player-enemy",
			kind: ruleOverlap,
			a:    groupPlayer,
			b:    groupEnemies,
			on: func(w *ecs.World, _, _ ecs.Entity) {
				s.items.DamagePlayer(w, 1)
			},
		},
		{
			name: "enemy-blocking",
			kind: ruleCollide,
			a:    groupEnemies,
			b:    groupBlocking,
			process: func(w *ecs.World, enemy, other ecs.Entity) bool {
				if !isMovingPot(w, other) {
					return true
				}
				e, _ := ecs.Get(w, enemy, component.EnemyComponent)
				return !e.Species.Flying()
			},
			on: func(w *ecs.World, enemy, other ecs.Entity) {
				if !isMovingPot(w, other) {
					return
				}
				s.items.DamageEnemy(w, enemy, 1)
				s.items.BreakPot(w, other)
			},
		},
		{
			name: "player-weapon-enemy",
			kind: ruleOverlap,
			a:    groupPlayerWeapon,
			b:    groupEnemies,
			on: func(w *ecs.World, weapon, enemy ecs.Entity) {
				wp, _ := ecs.Get(w, weapon, component.WeaponComponent)
				s.items.DamageEnemy(w, enemy, wp.Damage)
			},
		},
		{
			name: "enemy-weapon-player",
			kind: ruleOverlap,
			a:    groupEnemyWeapons,
			b:    groupPlayer,
			on: func(w *ecs.World, weapon, _ ecs.Entity) {
				wp, _ := ecs.Get(w, weapon, component.WeaponComponent)
				s.items.DamagePlayer(w, wp.Damage)
				w.DestroyEntity(weapon)
			},
		},
		{
			name: "thrown-pot-blocking",
			kind: ruleCollide,
			a:    groupThrownPots,
			b:    groupBlocking,
			on: func(w *ecs.World, pot, _ ecs.Entity) {
				s.items.BreakPot(w, pot)
			},
		},
		{
			name:    "thrown-pot-terrain",
			kind:    ruleCollide,
			a:       groupThrownPots,
			terrain: ecs.TerrainPlayer,
			on: func(w *ecs.World, pot, _ ecs.Entity) {
				s.items.BreakPot(w, pot)
			},
		},
		{
			name:    "enemy-weapon-terrain",
			kind:    ruleCollide,
			a:       groupEnemyWeapons,
			terrain: ecs.TerrainEnemy,
			on: func(w *ecs.World, weapon, _ ecs.Entity) {
				w.DestroyEntity(weapon)
			},
		},
	}
}
