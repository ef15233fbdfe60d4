package component

// Transform is the top-left world position of an entity.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()

// Velocity is expressed in world units per second.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()

// AABB is an axis-aligned bounding box in world units.
type AABB struct {
	X float64
	Y float64
	W float64
	H float64
}

func (a AABB) Center() (float64, float64) {
	return a.X + a.W/2, a.Y + a.H/2
}

// Overlaps is strict: boxes sharing only an edge do not overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

func (a AABB) Contains(x, y float64) bool {
	return x >= a.X && x <= a.X+a.W && y >= a.Y && y <= a.Y+a.H
}

func (a AABB) Offset(dx, dy float64) AABB {
	return AABB{X: a.X + dx, Y: a.Y + dy, W: a.W, H: a.H}
}

// Collider is the body size of an entity, anchored at its Transform.
type Collider struct {
	Width  float64
	Height float64
}

var ColliderComponent = NewComponent[Collider]()
