package app

import (
	"matcatalog/internal/clock"
	"matcatalog/internal/loop"
	"matcatalog/internal/profiling"
	"matcatalog/internal/viewport"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowScheduler delivers resize and refresh events from a glfw window
type WindowScheduler struct {
	window  *glfw.Window
	clock   clock.Clock
	limiter *FPSLimiter

	// first error raised from inside a glfw callback
	callbackErr error
}

// NewWindowScheduler drives handlers from window, reading time from clk
func NewWindowScheduler(window *glfw.Window, clk clock.Clock) *WindowScheduler {
	return &WindowScheduler{window: window, clock: clk, limiter: NewFPSLimiter()}
}

func (s *WindowScheduler) resize(h loop.Handler) {
	winW, winH := s.window.GetSize()
	fbW, _ := s.window.GetFramebufferSize()
	h.OnResize(winW, winH, viewport.DevicePixelRatio(winW, fbW))
}

// Run delivers the initial size, then one tick per refresh until the window
// closes or a tick fails
func (s *WindowScheduler) Run(h loop.Handler) error {
	s.window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		s.resize(h)
	})
	// the ratio can change without the window size changing, e.g. when the
	// window moves to another monitor
	s.window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		s.resize(h)
	})
	// Refresh callback keeps the picture live during a modal resize
	s.window.SetRefreshCallback(func(w *glfw.Window) {
		if s.callbackErr != nil {
			return
		}
		if err := h.OnTick(s.clock.Elapsed()); err != nil {
			s.callbackErr = err
			return
		}
		w.SwapBuffers()
	})
	defer func() {
		s.window.SetSizeCallback(nil)
		s.window.SetFramebufferSizeCallback(nil)
		s.window.SetRefreshCallback(nil)
	}()

	s.resize(h)

	for !s.window.ShouldClose() {
		profiling.ResetFrame()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		if s.callbackErr != nil {
			return loop.CleanExit(s.callbackErr)
		}

		if err := h.OnTick(s.clock.Elapsed()); err != nil {
			return loop.CleanExit(err)
		}

		func() { defer profiling.Track("glfw.SwapBuffers")(); s.window.SwapBuffers() }()

		iconified := s.window.GetAttrib(glfw.Iconified) == glfw.True
		s.limiter.Wait(iconified)
	}
	return nil
}
