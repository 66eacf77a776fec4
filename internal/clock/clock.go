// Package clock provides the monotonic elapsed-time source that drives the
// animation loop.
package clock

import (
	"sync"
	"time"
)

// Clock reports seconds elapsed since it was started.
type Clock interface {
	Elapsed() float64
}

// System is a Clock backed by the process monotonic clock.
type System struct {
	start time.Time
}

// Start returns a System clock that starts counting now.
func Start() *System {
	return &System{start: time.Now()}
}

// Elapsed returns seconds since Start. time.Since reads the monotonic
// reading, so wall clock adjustments never rewind it.
func (s *System) Elapsed() float64 {
	return time.Since(s.start).Seconds()
}

// Manual is a Clock advanced by hand, for tests and offline rendering.
type Manual struct {
	mu sync.Mutex
	t  float64
}

// NewManual returns a Manual clock at t = 0.
func NewManual() *Manual {
	return &Manual{}
}

// Elapsed returns the current manual reading.
func (m *Manual) Elapsed() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Advance moves the clock forward by d seconds. Negative steps are ignored.
func (m *Manual) Advance(d float64) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.t += d
	m.mu.Unlock()
}

// Set moves the clock to t if t is not earlier than the current reading.
func (m *Manual) Set(t float64) {
	m.mu.Lock()
	if t > m.t {
		m.t = t
	}
	m.mu.Unlock()
}
