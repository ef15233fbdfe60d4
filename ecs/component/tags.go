package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// Disabled removes an entity from every interaction rule and from rendering
// without destroying it, so a room can be hidden and shown again with its
// state intact.
type Disabled struct{}

var DisabledComponent = NewComponent[Disabled]()

// RoomMember records the single room an entity belongs to.
type RoomMember struct {
	RoomID int
}

var RoomMemberComponent = NewComponent[RoomMember]()
