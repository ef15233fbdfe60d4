package tween

// Barrier runs a callback once after a fixed number of arrivals.
type Barrier struct {
	pending int
	fn      func()
}

func NewBarrier(n int, fn func()) *Barrier {
	return &Barrier{pending: n, fn: fn}
}

// Arrive records one arrival and fires the callback on the last one.
// Arrivals after that are ignored.
func (b *Barrier) Arrive() {
	if b.pending <= 0 {
		return
	}
	b.pending--
	if b.pending == 0 && b.fn != nil {
		b.fn()
	}
}

// Pending returns the number of arrivals still awaited.
func (b *Barrier) Pending() int {
	return b.pending
}
