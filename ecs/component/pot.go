package component

// Pot is a breakable, throwable object. Broken is terminal.
type Pot struct {
	HomeX    float64
	HomeY    float64
	Broken   bool
	Thrown   bool
	Traveled float64
}

var PotComponent = NewComponent[Pot]()
