package component

import "github.com/milk9111/dungeon/loot"

// Chest goes hidden -> revealed -> opened. Opened implies revealed.
type Chest struct {
	ID            int
	RoomID        int
	Contents      loot.Item
	RevealTrigger Trap
	Revealed      bool
	Opened        bool
}

var ChestComponent = NewComponent[Chest]()
