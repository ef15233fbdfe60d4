package component

// Weapon is a damaging hitbox. Player swords follow the player; enemy
// projectiles fly on their own velocity until they hit or time out.
type Weapon struct {
	Owner       uint64
	Damage      int
	Hostile     bool
	Active      bool
	RemainingMS float64
}

var WeaponComponent = NewComponent[Weapon]()
