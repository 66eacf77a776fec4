package config

import "sync"

// RenderSettings holds settings that can change while the catalog is running
type RenderSettings struct {
	mu            sync.RWMutex
	fpsLimit      int // 0 = unlimited
	wireframe     bool
	maxPixelRatio float64
}

var globalRenderSettings = &RenderSettings{
	fpsLimit:      0,
	wireframe:     false,
	maxPixelRatio: 2.0,
}

// GetFPSLimit returns the current frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 480 {
		limit = 480
	}

	globalRenderSettings.fpsLimit = limit
}

// GetWireframeMode reports whether meshes are drawn as wireframes
func GetWireframeMode() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.wireframe
}

// SetWireframeMode enables or disables wireframe drawing
func SetWireframeMode(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = enabled
}

// ToggleWireframeMode flips wireframe drawing and returns the new state
func ToggleWireframeMode() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.wireframe = !globalRenderSettings.wireframe
	return globalRenderSettings.wireframe
}

// GetMaxPixelRatio returns the cap applied to the device pixel ratio
func GetMaxPixelRatio() float64 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.maxPixelRatio
}

// SetMaxPixelRatio sets the pixel ratio cap
func SetMaxPixelRatio(ratio float64) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if ratio < 1 {
		ratio = 1
	}
	if ratio > 4 {
		ratio = 4
	}

	globalRenderSettings.maxPixelRatio = ratio
}
