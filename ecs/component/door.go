package component

import (
	"fmt"
	"strings"
)

type DoorType string

const (
	DoorOpen DoorType = "OPEN"
	DoorLock DoorType = "LOCK"
	DoorBoss DoorType = "BOSS"
)

func ParseDoorType(s string) (DoorType, error) {
	switch t := DoorType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return DoorOpen, nil
	case DoorOpen, DoorLock, DoorBoss:
		return t, nil
	default:
		return "", fmt.Errorf("%w: door type %q", ErrUnknownValue, s)
	}
}

// Trap is the condition that opens a closed door or reveals a hidden chest.
type Trap string

const (
	TrapNone            Trap = "NONE"
	TrapEnemiesDefeated Trap = "ENEMIES_DEFEATED"
	TrapBossDefeated    Trap = "BOSS_DEFEATED"
	TrapSwitch          Trap = "SWITCH"
)

func ParseTrap(s string) (Trap, error) {
	switch t := Trap(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return TrapNone, nil
	case TrapNone, TrapEnemiesDefeated, TrapBossDefeated, TrapSwitch:
		return t, nil
	default:
		return "", fmt.Errorf("%w: trap %q", ErrUnknownValue, s)
	}
}

// Door connects its room to a target door, possibly in another level.
// The entity's Transform and Collider describe the blocking body, which only
// takes part in collisions while the door is closed. Zone is the transition
// trigger and is always present.
type Door struct {
	ID           int
	RoomID       int
	Direction    Direction
	Type         DoorType
	Trap         Trap
	TargetLevel  string
	TargetRoomID int
	TargetDoorID int
	Zone         AABB
	Open         bool
}

// Locked reports whether opening the door requires a key.
func (d Door) Locked() bool {
	return !d.Open && (d.Type == DoorLock || d.Type == DoorBoss)
}

// Blocking reports whether the door is a closed, keyless barrier.
func (d Door) Blocking() bool {
	return !d.Open && d.Type == DoorOpen
}

var DoorComponent = NewComponent[Door]()
