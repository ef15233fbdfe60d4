package component

import (
	"fmt"
	"strings"
)

type SwitchAction string

const (
	ActionOpenDoor    SwitchAction = "OPEN_DOOR"
	ActionRevealChest SwitchAction = "REVEAL_CHEST"
	ActionRevealKey   SwitchAction = "REVEAL_KEY"
	ActionNothing     SwitchAction = "NOTHING"
)

func ParseSwitchAction(s string) (SwitchAction, error) {
	switch a := SwitchAction(strings.ToUpper(strings.TrimSpace(s))); a {
	case "":
		return ActionNothing, nil
	case ActionOpenDoor, ActionRevealChest, ActionRevealKey, ActionNothing:
		return a, nil
	default:
		return "", fmt.Errorf("%w: switch action %q", ErrUnknownValue, s)
	}
}

// Switch is a floor button. Pressed latches while the player stands on it.
type Switch struct {
	ID        int
	RoomID    int
	Action    SwitchAction
	TargetIDs []int
	Pressed   bool
	TouchTick uint64
}

var SwitchComponent = NewComponent[Switch]()

// SwitchPress is what the resolver hands to trigger propagation.
type SwitchPress struct {
	RoomID    int
	SwitchID  int
	Action    SwitchAction
	TargetIDs []int
}
