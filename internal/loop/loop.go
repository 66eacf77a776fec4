// Package loop drives the per-frame rotation and redraw of the tracked
// objects.
package loop

import (
	"errors"
	"fmt"

	"matcatalog/internal/profiling"
	"matcatalog/internal/scene"
)

// Rotation rates in radians per second of elapsed time
const (
	RateX = 0.15
	RateY = 0.1
)

// ErrStopped is returned by OnTick once the loop has halted
var ErrStopped = errors.New("animation loop stopped")

// State is the loop lifecycle
type State int

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// Controls advance camera control state once per frame
type Controls interface {
	Update() bool
}

// Renderer draws the scene from its camera
type Renderer interface {
	Render(s *scene.Scene) error
}

// Loop owns the tracking list and is the only writer of object rotation
type Loop struct {
	scene    *scene.Scene
	tracked  []*scene.Object
	controls Controls
	renderer Renderer

	state  State
	frames uint64
	err    error
}

// New returns a running loop over a fixed copy of tracked
func New(s *scene.Scene, tracked []*scene.Object, controls Controls, renderer Renderer) *Loop {
	list := make([]*scene.Object, len(tracked))
	copy(list, tracked)
	return &Loop{
		scene:    s,
		tracked:  list,
		controls: controls,
		renderer: renderer,
		state:    StateRunning,
	}
}

// OnTick runs one frame for the given elapsed time in seconds. A render
// failure stops the loop for good.
func (l *Loop) OnTick(elapsed float64) error {
	if l.state == StateStopped {
		return ErrStopped
	}

	func() {
		defer profiling.Track("loop.Rotate")()
		Rotate(l.tracked, elapsed)
	}()

	if l.controls != nil {
		func() {
			defer profiling.Track("controls.Update")()
			l.controls.Update()
		}()
	}

	var err error
	func() {
		defer profiling.Track("renderer.Render")()
		err = l.renderer.Render(l.scene)
	}()
	if err != nil {
		l.state = StateStopped
		l.err = fmt.Errorf("render frame %d: %w", l.frames, err)
		return l.err
	}

	l.frames++
	return nil
}

// Rotate sets every object's orientation from elapsed time alone
func Rotate(objects []*scene.Object, elapsed float64) {
	x := float32(RateX * elapsed)
	y := float32(RateY * elapsed)
	for _, o := range objects {
		o.Rotation[0] = x
		o.Rotation[1] = y
	}
}

// Stop halts the loop, as on teardown
func (l *Loop) Stop() {
	l.state = StateStopped
}

// State returns the current lifecycle state
func (l *Loop) State() State {
	return l.state
}

// Err returns the error that stopped the loop, if any
func (l *Loop) Err() error {
	return l.err
}

// Frames returns the number of frames rendered
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Tracked returns a copy of the tracking list
func (l *Loop) Tracked() []*scene.Object {
	out := make([]*scene.Object, len(l.tracked))
	copy(out, l.tracked)
	return out
}
