package component

import "github.com/milk9111/dungeon/loot"

// SceneState is the singleton describing where the player is.
type SceneState struct {
	Level         string
	CurrentRoomID int
	InputLocked   bool
	Paused        bool
	// FadeAlpha goes 0 -> 1 while the game-over fade runs.
	FadeAlpha float64
}

var SceneStateComponent = NewComponent[SceneState]()

// Clock is advanced once per tick before systems run.
type Clock struct {
	Tick    uint64
	DeltaMS float64
}

var ClockComponent = NewComponent[Clock]()

// Reward is the item image that rises over the player after opening a chest.
type Reward struct {
	Item    loot.Item
	X       float64
	Y       float64
	Visible bool
}

var RewardComponent = NewComponent[Reward]()
