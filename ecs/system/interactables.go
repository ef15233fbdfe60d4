package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
	"github.com/milk9111/dungeon/event"
	"github.com/milk9111/dungeon/loot"
	"github.com/milk9111/dungeon/prefabs"
)

// Interactables owns the state transitions of doors, chests, pots, enemies
// and the player. Every change that must outlive the room is written through
// to the store in the same call. Store failures are logged and never roll
// back live state.
type Interactables struct {
	deps    *Deps
	catalog *prefabs.Catalog
	log     *zap.Logger
}

func NewInteractables(deps *Deps, catalog *prefabs.Catalog) *Interactables {
	return &Interactables{deps: deps, catalog: catalog, log: deps.log().Named("interactables")}
}

// OpenDoor opens a closed door and persists it. It reports false when the
// door was already open.
func (it *Interactables) OpenDoor(w *ecs.World, e ecs.Entity) bool {
	door, ok := ecs.Get(w, e, component.DoorComponent)
	if !ok || door.Open {
		return false
	}
	door.Open = true
	if err := ecs.Add(w, e, component.DoorComponent, door); err != nil {
		it.log.Error("open door", zap.Error(err))
		return false
	}
	if it.deps.Store != nil {
		if err := it.deps.Store.UpdateDoorData(it.deps.ctx(), it.deps.Level, door.RoomID, door.ID, true); err != nil {
			it.log.Error("persist door", zap.Int("room", door.RoomID), zap.Int("door", door.ID), zap.Error(err))
		}
	}
	it.log.Debug("door opened", zap.Int("room", door.RoomID), zap.Int("door", door.ID))
	return true
}

// TryUnlock opens a locked door if the player holds the matching key. A lock
// consumes one small key; a boss door only needs the boss key. Without a key
// nothing happens.
func (it *Interactables) TryUnlock(w *ecs.World, e ecs.Entity) bool {
	door, ok := ecs.Get(w, e, component.DoorComponent)
	if !ok || !door.Locked() || it.deps.Inventory == nil {
		return false
	}
	inv, err := it.deps.Inventory.AreaInventory(it.deps.ctx(), it.deps.Level)
	if err != nil {
		it.log.Error("read inventory", zap.Error(err))
		return false
	}
	switch door.Type {
	case component.DoorLock:
		if inv.Keys < 1 {
			return false
		}
		if err := it.deps.Inventory.UseAreaSmallKey(it.deps.ctx(), it.deps.Level); err != nil {
			it.log.Error("use small key", zap.Error(err))
			return false
		}
	case component.DoorBoss:
		if !inv.BossKey {
			return false
		}
	default:
		return false
	}
	return it.OpenDoor(w, e)
}

// RevealChest shows a hidden chest. The store is only written when its
// record is not already revealed.
func (it *Interactables) RevealChest(w *ecs.World, e ecs.Entity) bool {
	chest, ok := ecs.Get(w, e, component.ChestComponent)
	if !ok || chest.Revealed {
		return false
	}
	chest.Revealed = true
	if err := ecs.Add(w, e, component.ChestComponent, chest); err != nil {
		it.log.Error("reveal chest", zap.Error(err))
		return false
	}
	if it.deps.Store != nil {
		rec, found, err := it.deps.Store.Chest(it.deps.ctx(), it.deps.Level, chest.RoomID, chest.ID)
		if err != nil {
			it.log.Error("read chest record", zap.Error(err))
		}
		if !found || !rec.Revealed {
			if err := it.deps.Store.UpdateChestData(it.deps.ctx(), it.deps.Level, chest.RoomID, chest.ID, true, false); err != nil {
				it.log.Error("persist chest", zap.Int("room", chest.RoomID), zap.Int("chest", chest.ID), zap.Error(err))
			}
		}
	}
	it.log.Debug("chest revealed", zap.Int("room", chest.RoomID), zap.Int("chest", chest.ID))
	return true
}

// OpenChest opens a revealed chest, persists it and grants its contents.
// Everything but a small key is also minted. It reports false if the chest
// is hidden or already open.
func (it *Interactables) OpenChest(w *ecs.World, e ecs.Entity) bool {
	chest, ok := ecs.Get(w, e, component.ChestComponent)
	if !ok || !chest.Revealed || chest.Opened {
		return false
	}
	chest.Opened = true
	if err := ecs.Add(w, e, component.ChestComponent, chest); err != nil {
		it.log.Error("open chest", zap.Error(err))
		return false
	}
	if it.deps.Store != nil {
		if err := it.deps.Store.UpdateChestData(it.deps.ctx(), it.deps.Level, chest.RoomID, chest.ID, true, true); err != nil {
			it.log.Error("persist chest", zap.Int("room", chest.RoomID), zap.Int("chest", chest.ID), zap.Error(err))
		}
	}
	if chest.Contents == loot.Nothing {
		return true
	}
	if it.deps.Inventory != nil {
		if err := it.deps.Inventory.AddDungeonItem(it.deps.ctx(), it.deps.Level, chest.Contents); err != nil {
			it.log.Error("grant item", zap.String("item", string(chest.Contents)), zap.Error(err))
		}
	}
	// small keys come from the riddle and are not minted
	if chest.Contents != loot.SmallKey {
		it.deps.Minter.Mint(it.deps.ctx(), chest.Contents)
	}
	return true
}

// BreakPot destroys an intact pot for the rest of the session.
func (it *Interactables) BreakPot(w *ecs.World, e ecs.Entity) bool {
	pot, ok := ecs.Get(w, e, component.PotComponent)
	if !ok || pot.Broken {
		return false
	}
	pot.Broken = true
	pot.Thrown = false
	_ = ecs.Add(w, e, component.PotComponent, pot)
	_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})

	tr, _ := ecs.Get(w, e, component.TransformComponent)
	it.deps.publish(event.PotBroken, event.Pot{Entity: e.Raw(), X: tr.X, Y: tr.Y})
	return true
}

// DamageEnemy hurts a live enemy. A defeated enemy is disabled and announced
// on the bus; a boss is announced twice, as destroyed and as the boss.
func (it *Interactables) DamageEnemy(w *ecs.World, e ecs.Entity, amount int) bool {
	enemy, ok := ecs.Get(w, e, component.EnemyComponent)
	if !ok || !enemy.Alive || !enabled(w, e) || ecs.Has(w, e, component.InvulnerableComponent) {
		return false
	}
	health, _ := ecs.Get(w, e, component.HealthComponent)
	health.Life -= amount
	_ = ecs.Add(w, e, component.HealthComponent, health)

	if health.Life > 0 {
		if ms := it.enemyInvulnerability(enemy.Species); ms > 0 {
			_ = ecs.Add(w, e, component.InvulnerableComponent, component.Invulnerable{RemainingMS: ms})
		}
		return true
	}

	enemy.Alive = false
	_ = ecs.Add(w, e, component.EnemyComponent, enemy)
	_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})
	_ = ecs.Add(w, e, component.DisabledComponent, component.Disabled{})
	it.log.Debug("enemy destroyed", zap.Stringer("species", enemy.Species), zap.Int("room", enemy.RoomID))

	it.deps.publish(event.EnemyDestroyed, event.Enemy{Entity: e.Raw(), RoomID: enemy.RoomID})
	if enemy.Species == component.SpeciesBoss {
		it.deps.publish(event.BossDefeated, event.Enemy{Entity: e.Raw(), RoomID: enemy.RoomID})
	}
	return true
}

func (it *Interactables) enemyInvulnerability(s component.Species) float64 {
	if it.catalog == nil {
		return 0
	}
	spec, ok := it.catalog.Enemies[s.String()]
	if !ok || spec == nil {
		return 0
	}
	return spec.InvulnerabilityMS
}

// DamagePlayer hurts the player unless it is invulnerable or already
// defeated.
func (it *Interactables) DamagePlayer(w *ecs.World, amount int) bool {
	e, ok := playerEntity(w)
	if !ok || ecs.Has(w, e, component.InvulnerableComponent) {
		return false
	}
	player, _ := ecs.Get(w, e, component.PlayerComponent)
	if player.Defeated {
		return false
	}
	health, _ := ecs.Get(w, e, component.HealthComponent)
	health.Life -= amount
	_ = ecs.Add(w, e, component.HealthComponent, health)

	if health.Life > 0 {
		if it.catalog != nil && it.catalog.Player != nil && it.catalog.Player.InvulnerabilityMS > 0 {
			_ = ecs.Add(w, e, component.InvulnerableComponent, component.Invulnerable{RemainingMS: it.catalog.Player.InvulnerabilityMS})
		}
		return true
	}

	player.Defeated = true
	_ = ecs.Add(w, e, component.PlayerComponent, player)
	_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})
	it.deps.publish(event.PlayerDefeated, nil)
	return true
}

// SetEnabled toggles a single entity. Defeated enemies stay disabled.
func (it *Interactables) SetEnabled(w *ecs.World, e ecs.Entity, on bool) {
	if !w.IsAlive(e) {
		return
	}
	if !on {
		_ = ecs.Add(w, e, component.DisabledComponent, component.Disabled{})
		return
	}
	if enemy, ok := ecs.Get(w, e, component.EnemyComponent); ok && !enemy.Alive {
		return
	}
	ecs.Remove(w, e, component.DisabledComponent)
}

// EnableRoom brings every entity of a room back into play.
func (it *Interactables) EnableRoom(w *ecs.World, roomID int) {
	if it.deps.Registry == nil {
		return
	}
	it.deps.Registry.ForEachEntity(roomID, func(e ecs.Entity) {
		it.SetEnabled(w, e, true)
	})
}

// DisableRoom suspends a room: intact pots and live enemies return to where
// they started and the room's projectiles are removed.
func (it *Interactables) DisableRoom(w *ecs.World, roomID int) {
	if it.deps.Registry == nil {
		return
	}
	it.deps.Registry.ForEachEntity(roomID, func(e ecs.Entity) {
		it.SetEnabled(w, e, false)
		if pot, ok := ecs.Get(w, e, component.PotComponent); ok && !pot.Broken {
			pot.Thrown = false
			pot.Traveled = 0
			_ = ecs.Add(w, e, component.PotComponent, pot)
			_ = ecs.Add(w, e, component.TransformComponent, component.Transform{X: pot.HomeX, Y: pot.HomeY})
			_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})
		}
		if enemy, ok := ecs.Get(w, e, component.EnemyComponent); ok && enemy.Alive {
			_ = ecs.Add(w, e, component.TransformComponent, component.Transform{X: enemy.HomeX, Y: enemy.HomeY})
			_ = ecs.Add(w, e, component.VelocityComponent, component.Velocity{})
		}
	})
	for _, e := range w.Query(component.WeaponComponent.Kind(), component.RoomMemberComponent.Kind()) {
		member, _ := ecs.Get(w, e, component.RoomMemberComponent)
		if member.RoomID == roomID {
			w.DestroyEntity(e)
		}
	}
}
