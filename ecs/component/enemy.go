package component

import "fmt"

// Species is the closed set of enemy behaviours.
type Species int

const (
	SpeciesGroundMelee  Species = iota + 1 // spider
	SpeciesFlyingRanged                    // wisp
	SpeciesBoss                            // drow
)

// SpeciesFromCode maps the numeric type authored in level data.
func SpeciesFromCode(code int) (Species, bool) {
	switch code {
	case 1:
		return SpeciesGroundMelee, true
	case 2:
		return SpeciesFlyingRanged, true
	case 3:
		return SpeciesBoss, true
	default:
		return 0, false
	}
}

func (s Species) String() string {
	switch s {
	case SpeciesGroundMelee:
		return "spider"
	case SpeciesFlyingRanged:
		return "wisp"
	case SpeciesBoss:
		return "drow"
	default:
		return fmt.Sprintf("species(%d)", int(s))
	}
}

// Flying enemies ignore thrown pots and never hold a room shut.
func (s Species) Flying() bool {
	return s == SpeciesFlyingRanged
}

type Enemy struct {
	Species Species
	RoomID  int
	Alive   bool
	HomeX   float64
	HomeY   float64
	// AttackCooldownMS counts down between ranged attacks.
	AttackCooldownMS float64
	// BlockedX and BlockedY record terrain contact from the last move.
	BlockedX bool
	BlockedY bool
}

var EnemyComponent = NewComponent[Enemy]()

// Script is the behaviour program an enemy runs each tick.
type Script struct {
	Name string
}

var ScriptComponent = NewComponent[Script]()
