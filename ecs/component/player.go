package component

// Input stores the player's intent for the current frame.
type Input struct {
	MoveX    float64
	MoveY    float64
	Attack   bool
	Interact bool
	Throw    bool
}

var InputComponent = NewComponent[Input]()

type Player struct {
	Facing Direction
	// AttackMS is the time left on the current swing.
	AttackMS float64
	// Contacts are the blocking entities the player pushed against this tick.
	Contacts []uint64
	Defeated bool
}

var PlayerComponent = NewComponent[Player]()
