package component

type Camera struct {
	// Bounds limits the visible area in world units.
	Bounds    AABB
	Zoom      float64
	Following bool
	// ViewX/ViewY is the top-left of the visible area.
	ViewX float64
	ViewY float64
}

var CameraComponent = NewComponent[Camera]()
