// Package texture loads image assets off the render thread and exposes them
// through handles that are usable before the pixels arrive.
package texture

import (
	"fmt"
	"strings"
	"sync"
)

// Target is the texture binding target
type Target int

const (
	Target2D Target = iota
	TargetCube
)

// Filter selects texel filtering
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Wrap selects the addressing mode outside [0,1]
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// Sampling holds the sampler state uploaded with a texture
type Sampling struct {
	MinFilter Filter
	MagFilter Filter
	Mipmaps   bool
	Wrap      Wrap
}

// DefaultSampling is trilinear with repeat addressing
func DefaultSampling() Sampling {
	return Sampling{MinFilter: FilterLinear, MagFilter: FilterLinear, Mipmaps: true, Wrap: WrapRepeat}
}

// Option adjusts the sampling of a texture being loaded
type Option func(*Sampling)

// WithNearest disables filtering and mipmaps, as needed for toon gradient ramps
func WithNearest() Option {
	return func(s *Sampling) {
		s.MinFilter = FilterNearest
		s.MagFilter = FilterNearest
		s.Mipmaps = false
	}
}

// WithClamp clamps coordinates to the edge texels
func WithClamp() Option {
	return func(s *Sampling) {
		s.Wrap = WrapClamp
	}
}

// State is the lifecycle of a handle
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Handle is returned immediately by the loader. Until its pixels are decoded
// and uploaded it reports StatePending and a zero texture name, which the
// renderer treats as "input absent".
type Handle struct {
	Target   Target
	Paths    []string
	Sampling Sampling

	mu         sync.RWMutex
	state      State
	id         uint32
	width      int
	height     int
	err        error
	generation uint64
}

func newHandle(target Target, paths []string, s Sampling) *Handle {
	return &Handle{Target: target, Paths: paths, Sampling: s}
}

// Key identifies a handle in the loader cache
func (h *Handle) Key() string {
	return cacheKey(h.Target, h.Paths, h.Sampling)
}

// ID returns the GPU texture name, or 0 while the texture is not usable
func (h *Handle) ID() uint32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateReady {
		return 0
	}
	return h.id
}

// Ready reports whether the texture can be sampled
func (h *Handle) Ready() bool {
	return h.State() == StateReady
}

// State returns the current lifecycle state
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Err returns the last load error, if any
func (h *Handle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Size returns the uploaded dimensions
func (h *Handle) Size() (int, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.width, h.height
}

// Generation counts reload requests
func (h *Handle) Generation() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.generation
}

func (h *Handle) bump() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation++
	return h.generation
}

// resolve marks the handle ready and returns the previous name to release.
func (h *Handle) resolve(id uint32, w, ht int) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.id
	h.id = id
	h.width = w
	h.height = ht
	h.state = StateReady
	h.err = nil
	return old
}

// fail keeps a previously uploaded texture usable; only a handle that never
// resolved becomes StateFailed.
func (h *Handle) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
	if h.state != StateReady {
		h.state = StateFailed
	}
}

func cacheKey(target Target, paths []string, s Sampling) string {
	return fmt.Sprintf("%d|%s|%d%d%t%d", target, strings.Join(paths, ","), s.MinFilter, s.MagFilter, s.Mipmaps, s.Wrap)
}
