package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCamera struct {
	aspect float32
	calls  int
}

func (c *fakeCamera) SetAspect(a float32) {
	c.aspect = a
	c.calls++
}

type fakeSurface struct {
	w, h  int
	ratio float64
}

func (s *fakeSurface) SetSize(w, h int)        { s.w, s.h = w, h }
func (s *fakeSurface) SetPixelRatio(r float64) { s.ratio = r }

func TestResizeForwardsAspectAndSize(t *testing.T) {
	cam, surf := &fakeCamera{}, &fakeSurface{}
	b := NewBinder(cam, surf)

	assert.True(t, b.OnResize(1920, 1080, 1.5))
	assert.Equal(t, float32(1920)/float32(1080), cam.aspect)
	assert.Equal(t, 1920, surf.w)
	assert.Equal(t, 1080, surf.h)
	assert.Equal(t, 1.5, surf.ratio)
	assert.Equal(t, State{Width: 1920, Height: 1080, Aspect: float32(1920) / float32(1080), PixelRatio: 1.5}, b.State())
}

func TestPixelRatioIsCapped(t *testing.T) {
	tests := []struct {
		dpr  float64
		want float64
	}{
		{1, 1},
		{2, 2},
		{3, 2},
		{0, 1},
		{-4, 1},
	}
	for _, tt := range tests {
		surf := &fakeSurface{}
		b := NewBinder(&fakeCamera{}, surf)
		b.OnResize(800, 600, tt.dpr)
		assert.Equal(t, tt.want, surf.ratio, "dpr %v", tt.dpr)
	}
}

func TestDegenerateResizeIsIgnored(t *testing.T) {
	cam, surf := &fakeCamera{}, &fakeSurface{}
	b := NewBinder(cam, surf)
	b.OnResize(800, 600, 1)
	before := b.State()

	for _, size := range [][2]int{{0, 600}, {800, 0}, {0, 0}, {-1, 10}} {
		assert.False(t, b.OnResize(size[0], size[1], 1))
		assert.Equal(t, before, b.State())
		assert.Equal(t, float32(800)/float32(600), cam.aspect)
	}
	assert.Equal(t, 1, cam.calls)
}

func TestResizeIsIdempotent(t *testing.T) {
	cam, surf := &fakeCamera{}, &fakeSurface{}
	b := NewBinder(cam, surf)

	b.OnResize(1024, 768, 2)
	first := b.State()
	b.OnResize(1024, 768, 2)
	assert.Equal(t, first, b.State())
	assert.Equal(t, 1024, surf.w)
}

func TestLatestResizeWins(t *testing.T) {
	cam, surf := &fakeCamera{}, &fakeSurface{}
	b := NewBinder(cam, surf)

	b.OnResize(640, 480, 1)
	b.OnResize(1280, 720, 1)
	b.OnResize(300, 300, 1)
	assert.Equal(t, 300, b.State().Width)
	assert.Equal(t, float32(1), cam.aspect)
	assert.Equal(t, 300, surf.h)
}

func TestDevicePixelRatio(t *testing.T) {
	tests := []struct {
		win, fb int
		want    float64
	}{
		{900, 900, 1},
		{900, 1800, 2},
		{800, 1200, 1.5},
		{0, 1800, 1},
		{-1, 1800, 1},
		{900, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DevicePixelRatio(tt.win, tt.fb), "%d/%d", tt.fb, tt.win)
	}
}
