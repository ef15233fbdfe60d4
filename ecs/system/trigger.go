package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/dungeon/ecs"
	"github.com/milk9111/dungeon/ecs/component"
)

// Triggers turns switch presses and enemy defeats into door and chest state
// changes in the current room.
type Triggers struct {
	deps  *Deps
	items *Interactables
	log   *zap.Logger
}

func NewTriggers(deps *Deps, items *Interactables) *Triggers {
	return &Triggers{deps: deps, items: items, log: deps.log().Named("triggers")}
}

func currentRoom(w *ecs.World) int {
	_, s, _ := sceneState(w)
	return s.CurrentRoomID
}

// SwitchPressed applies a switch action to its targets. Targets resolve in
// the current room only. An unknown action is corrupt level data and panics.
func (t *Triggers) SwitchPressed(w *ecs.World, press component.SwitchPress) {
	if len(press.TargetIDs) == 0 || press.Action == component.ActionNothing {
		return
	}
	roomID := currentRoom(w)
	switch press.Action {
	case component.ActionOpenDoor:
		for _, id := range press.TargetIDs {
			e, ok := t.deps.Registry.Door(roomID, id)
			if !ok {
				t.log.Warn("switch target door not found", zap.Int("room", roomID), zap.Int("switch", press.SwitchID), zap.Int("door", id))
				continue
			}
			t.items.OpenDoor(w, e)
		}
	case component.ActionRevealChest:
		for _, id := range press.TargetIDs {
			e, ok := t.deps.Registry.Chest(roomID, id)
			if !ok {
				t.log.Warn("switch target chest not found", zap.Int("room", roomID), zap.Int("switch", press.SwitchID), zap.Int("chest", id))
				continue
			}
			t.items.RevealChest(w, e)
		}
	case component.ActionRevealKey:
		// keys are not modelled as separate objects
	default:
		panic(fmt.Sprintf("trigger: unknown switch action %q", string(press.Action)))
	}
}

// RoomCleared reports whether the enemy group of a room no longer holds it
// shut. Rooms without an enemy group are never cleared; flying enemies never
// count.
func (t *Triggers) RoomCleared(w *ecs.World, roomID int) bool {
	rm, ok := t.deps.Registry.Room(roomID)
	if !ok || !rm.HasEnemyGroup {
		return false
	}
	for _, e := range rm.Enemies {
		enemy, ok := ecs.Get(w, e, component.EnemyComponent)
		if !ok || !enemy.Alive || enemy.Species.Flying() {
			continue
		}
		return false
	}
	return true
}

// CheckRoomCleared reveals and opens everything in the current room that
// waits on its enemies. Repeated calls change nothing further.
func (t *Triggers) CheckRoomCleared(w *ecs.World) {
	roomID := currentRoom(w)
	if !t.RoomCleared(w, roomID) {
		return
	}
	t.resolveRoomCleared(w, roomID)
}

// resolveRoomCleared applies the room-clear outcome without checking the
// enemy group. Boss-gated doors still need the persisted boss flag.
func (t *Triggers) resolveRoomCleared(w *ecs.World, roomID int) {
	rm, ok := t.deps.Registry.Room(roomID)
	if !ok {
		return
	}

	for _, e := range rm.Chests {
		chest, ok := ecs.Get(w, e, component.ChestComponent)
		if ok && chest.RevealTrigger == component.TrapEnemiesDefeated {
			t.items.RevealChest(w, e)
		}
	}

	bossDefeated := false
	for _, e := range rm.Doors {
		door, ok := ecs.Get(w, e, component.DoorComponent)
		if !ok || door.Open {
			continue
		}
		switch door.Trap {
		case component.TrapEnemiesDefeated:
			t.items.OpenDoor(w, e)
		case component.TrapBossDefeated:
			if !bossDefeated {
				bossDefeated = t.bossFlag()
			}
			if bossDefeated {
				t.items.OpenDoor(w, e)
			}
		}
	}
}

func (t *Triggers) bossFlag() bool {
	if t.deps.Store == nil {
		return false
	}
	defeated, err := t.deps.Store.BossDefeated(t.deps.ctx(), t.deps.Level)
	if err != nil {
		t.log.Error("read boss flag", zap.Error(err))
	}
	return defeated
}

// BossDefeated records the level's boss as beaten, once, and re-runs the
// room-clear resolution for the current room even while other enemies live.
func (t *Triggers) BossDefeated(w *ecs.World) {
	if t.deps.Store != nil && !t.bossFlag() {
		if err := t.deps.Store.DefeatedAreaBoss(t.deps.ctx(), t.deps.Level); err != nil {
			t.log.Error("persist boss flag", zap.Error(err))
		}
	}
	t.resolveRoomCleared(w, currentRoom(w))
}
