package component

// TransitionIntent is raised by the player touching an open door zone and is
// consumed exactly once by the transition system.
type TransitionIntent struct {
	SourceRoomID int
	SourceDoorID int
}

var TransitionIntentComponent = NewComponent[TransitionIntent]()

// TransitionPhase tracks where the player is on the way between rooms.
type TransitionPhase int

const (
	// TransitionExiting walks the player out of the source door into the
	// hallway between the two rooms.
	TransitionExiting TransitionPhase = iota + 1
	// TransitionEntering walks the player from the hallway into the target
	// room while the camera finishes reframing.
	TransitionEntering
)

// TransitionRuntime holds transient state for an in-progress room transition.
type TransitionRuntime struct {
	Phase        TransitionPhase
	SourceRoomID int
	SourceDoorID int
	TargetRoomID int
	TargetDoorID int
	Direction    Direction
	// Pending counts the phase tweens that have not completed yet.
	Pending int
}

var TransitionRuntimeComponent = NewComponent[TransitionRuntime]()

// TransitionCooldown prevents immediately re-triggering the door the player
// just arrived through. It clears once the player has fully left the zone.
type TransitionCooldown struct {
	Active bool
	RoomID int
	DoorID int
}

var TransitionCooldownComponent = NewComponent[TransitionCooldown]()

// LevelChangeRequest is a one-shot request asking the outer loop to load a
// different level.
type LevelChangeRequest struct {
	Level  string
	RoomID int
	DoorID int
}

var LevelChangeRequestComponent = NewComponent[LevelChangeRequest]()
