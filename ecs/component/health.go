package component

type Health struct {
	Life int
	Max  int
}

var HealthComponent = NewComponent[Health]()

// Invulnerable marks an entity as temporarily immune to damage. The health
// system counts RemainingMS down and removes the component at zero.
type Invulnerable struct {
	RemainingMS float64
}

var InvulnerableComponent = NewComponent[Invulnerable]()
