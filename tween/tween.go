package tween

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(float64) float64

func Linear(p float64) float64 { return p }

// Config describes one tween. All times are in milliseconds of simulated
// time, advanced by Manager.Update.
type Config struct {
	Delay    float64
	Duration float64
	// From is sampled when the delay elapses, so a tween can start from a
	// value another tween produced in the meantime.
	From       func() []float64
	To         []float64
	Ease       Ease
	OnStart    func()
	OnUpdate   func(values []float64)
	OnComplete func()
}

// Tween is a running interpolation owned by a Manager.
type Tween struct {
	cfg     Config
	elapsed float64
	started bool
	done    bool
	from    []float64
	values  []float64
}

// Done reports whether the tween has delivered its final update.
func (t *Tween) Done() bool { return t.done }

// Values returns the last interpolated values.
func (t *Tween) Values() []float64 { return t.values }

// Manager advances tweens. It is single-threaded and frame-driven.
type Manager struct {
	tweens []*Tween
}

func NewManager() *Manager {
	return &Manager{}
}

// Add schedules a tween and returns it.
func (m *Manager) Add(cfg Config) *Tween {
	if cfg.Ease == nil {
		cfg.Ease = Linear
	}
	t := &Tween{cfg: cfg}
	m.tweens = append(m.tweens, t)
	return t
}

// Len returns the number of unfinished tweens.
func (m *Manager) Len() int {
	return len(m.tweens)
}

// Clear drops every tween without completing it.
func (m *Manager) Clear() {
	m.tweens = nil
}

// Update advances every tween by dt. A tween's OnComplete runs after its
// final OnUpdate, and after every other tween of this step has been updated.
// Tweens added from callbacks start on the next Update.
func (m *Manager) Update(dt float64) {
	if len(m.tweens) == 0 {
		return
	}
	active := m.tweens
	var completed []*Tween
	for _, t := range active {
		if t.step(dt) {
			completed = append(completed, t)
		}
	}

	// keep tweens added during the step
	added := m.tweens[len(active):]
	remaining := make([]*Tween, 0, len(m.tweens))
	for _, t := range active {
		if !t.done {
			remaining = append(remaining, t)
		}
	}
	m.tweens = append(remaining, added...)

	for _, t := range completed {
		if t.cfg.OnComplete != nil {
			t.cfg.OnComplete()
		}
	}
}

func (t *Tween) step(dt float64) bool {
	if t.done {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.cfg.Delay {
		return false
	}
	if !t.started {
		t.started = true
		if t.cfg.From != nil {
			t.from = append([]float64(nil), t.cfg.From()...)
		}
		if len(t.from) < len(t.cfg.To) {
			t.from = append(t.from, make([]float64, len(t.cfg.To)-len(t.from))...)
		}
		t.values = make([]float64, len(t.cfg.To))
		if t.cfg.OnStart != nil {
			t.cfg.OnStart()
		}
	}

	progress := 1.0
	if t.cfg.Duration > 0 {
		progress = (t.elapsed - t.cfg.Delay) / t.cfg.Duration
		if progress > 1 {
			progress = 1
		}
	}
	eased := t.cfg.Ease(progress)
	if progress >= 1 {
		eased = 1
	}
	for i, to := range t.cfg.To {
		t.values[i] = t.from[i] + (to-t.from[i])*eased
	}
	if t.cfg.OnUpdate != nil {
		t.cfg.OnUpdate(t.values)
	}
	if progress >= 1 {
		t.done = true
		return true
	}
	return false
}
