// Package viewport translates window size changes into camera and output
// surface updates.
package viewport

import (
	"math"

	"matcatalog/internal/config"

	"github.com/rs/zerolog/log"
)

// Projector is the camera side of a resize
type Projector interface {
	SetAspect(aspect float32)
}

// Surface is the output side of a resize
type Surface interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
}

// State is the last applied viewport
type State struct {
	Width      int
	Height     int
	Aspect     float32
	PixelRatio float64
}

// DevicePixelRatio is framebuffer pixels per window coordinate. An unknown
// window width reports 1.
func DevicePixelRatio(windowWidth, framebufferWidth int) float64 {
	if windowWidth <= 0 || framebufferWidth <= 0 {
		return 1
	}
	return float64(framebufferWidth) / float64(windowWidth)
}

// Binder is the only writer of the viewport state
type Binder struct {
	camera  Projector
	surface Surface
	state   State
}

// NewBinder returns a binder with no size applied yet
func NewBinder(camera Projector, surface Surface) *Binder {
	return &Binder{camera: camera, surface: surface}
}

// OnResize applies a window size in device-independent pixels. A zero or
// negative dimension leaves the previous state untouched and returns false.
func (b *Binder) OnResize(width, height int, devicePixelRatio float64) bool {
	if width <= 0 || height <= 0 {
		log.Debug().Int("w", width).Int("h", height).Msg("ignoring degenerate viewport")
		return false
	}
	if devicePixelRatio <= 0 || math.IsNaN(devicePixelRatio) {
		devicePixelRatio = 1
	}
	ratio := math.Min(devicePixelRatio, config.GetMaxPixelRatio())

	b.state = State{
		Width:      width,
		Height:     height,
		Aspect:     float32(width) / float32(height),
		PixelRatio: ratio,
	}

	b.camera.SetAspect(b.state.Aspect)
	b.surface.SetSize(width, height)
	b.surface.SetPixelRatio(ratio)
	return true
}

// State returns the last applied viewport
func (b *Binder) State() State {
	return b.state
}
