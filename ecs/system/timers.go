package system

import (
	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

// TimerSystem counts down invulnerability, sword swings, projectile
// lifetimes and enemy attack cooldowns.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil || paused(w) {
		return
	}
	dt := deltaMS(w)

	for _, e := range w.Query(component.InvulnerableComponent.Kind()) {
		inv, _ := ecs.Get(w, e, component.InvulnerableComponent)
		inv.RemainingMS -= dt
		if inv.RemainingMS <= 0 {
			ecs.Remove(w, e, component.InvulnerableComponent)
			continue
		}
		_ = ecs.Add(w, e, component.InvulnerableComponent, inv)
	}

	for _, e := range w.Query(component.PlayerComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PlayerComponent)
		if p.AttackMS <= 0 {
			continue
		}
		p.AttackMS -= dt
		if p.AttackMS <= 0 {
			p.AttackMS = 0
			if sword, ok := swordOf(w, e); ok {
				ecs.Update(w, sword, component.WeaponComponent, func(wp *component.Weapon) { wp.Active = false })
			}
		}
		_ = ecs.Add(w, e, component.PlayerComponent, p)
	}

	for _, e := range w.Query(component.WeaponComponent.Kind()) {
		wp, _ := ecs.Get(w, e, component.WeaponComponent)
		if !wp.Hostile {
			continue
		}
		wp.RemainingMS -= dt
		if wp.RemainingMS <= 0 {
			w.DestroyEntity(e)
			continue
		}
		_ = ecs.Add(w, e, component.WeaponComponent, wp)
	}

	for _, e := range w.Query(component.EnemyComponent.Kind()) {
		en, _ := ecs.Get(w, e, component.EnemyComponent)
		if en.AttackCooldownMS <= 0 {
			continue
		}
		en.AttackCooldownMS -= dt
		if en.AttackCooldownMS < 0 {
			en.AttackCooldownMS = 0
		}
		_ = ecs.Add(w, e, component.EnemyComponent, en)
	}
}
