package loop

import (
	"errors"
)

// Handler receives the two events a scheduler delivers
type Handler interface {
	OnResize(width, height int, devicePixelRatio float64)
	OnTick(elapsed float64) error
}

// Scheduler drives a Handler until it fails or the host stops it
type Scheduler interface {
	Run(h Handler) error
}

// Event is one scripted scheduler step
type Event struct {
	// Resize marks a size notification; otherwise the event is a tick
	Resize bool
	Width  int
	Height int
	DPR    float64

	Elapsed float64
}

// Tick is a scripted refresh at elapsed seconds
func Tick(elapsed float64) Event {
	return Event{Elapsed: elapsed}
}

// Resize is a scripted window size notification
func Resize(width, height int, dpr float64) Event {
	return Event{Resize: true, Width: width, Height: height, DPR: dpr}
}

// CleanExit maps the error that ended a scheduler run to its result. A loop
// that was already stopped ends the run cleanly.
func CleanExit(err error) error {
	if errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

// ManualScheduler replays a fixed script of events without a display
type ManualScheduler struct {
	Events []Event

	ticks int
}

// NewManualScheduler returns a scheduler replaying events in order
func NewManualScheduler(events ...Event) *ManualScheduler {
	return &ManualScheduler{Events: events}
}

// Run delivers every event and stops at the first tick error. Running out of
// events is a clean exit.
func (m *ManualScheduler) Run(h Handler) error {
	for _, ev := range m.Events {
		if ev.Resize {
			h.OnResize(ev.Width, ev.Height, ev.DPR)
			continue
		}
		m.ticks++
		if err := h.OnTick(ev.Elapsed); err != nil {
			return CleanExit(err)
		}
	}
	return nil
}

// Ticks returns how many tick events were delivered
func (m *ManualScheduler) Ticks() int {
	return m.ticks
}

// Resizer reacts to window size changes
type Resizer interface {
	OnResize(width, height int, devicePixelRatio float64) bool
}

type binding struct {
	resizer Resizer
	loop    *Loop
}

// Bind pairs a resizer with a loop into a Handler
func Bind(r Resizer, l *Loop) Handler {
	return binding{resizer: r, loop: l}
}

func (b binding) OnResize(width, height int, devicePixelRatio float64) {
	if b.resizer != nil {
		b.resizer.OnResize(width, height, devicePixelRatio)
	}
}

func (b binding) OnTick(elapsed float64) error {
	return b.loop.OnTick(elapsed)
}
