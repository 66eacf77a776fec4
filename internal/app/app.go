// Package app wires the catalog scene, viewport binder, animation loop and
// GL renderer to a glfw window.
package app

import (
	"fmt"
	"time"

	"matcatalog/internal/assembly"
	"matcatalog/internal/camera"
	"matcatalog/internal/clock"
	"matcatalog/internal/config"
	"matcatalog/internal/graphics"
	"matcatalog/internal/graphics/renderables/materials"
	"matcatalog/internal/graphics/renderables/overlay"
	"matcatalog/internal/graphics/renderer"
	"matcatalog/internal/input"
	"matcatalog/internal/loop"
	"matcatalog/internal/profiling"
	"matcatalog/internal/scene"
	"matcatalog/internal/texture"
	"matcatalog/internal/viewport"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
)

// slowFrame is the processing time above which a frame is logged
const slowFrame = 16 * time.Millisecond

// App is the single context constructed at startup. It owns everything the
// frame callbacks touch; nothing lives in package globals.
type App struct {
	window *glfw.Window
	input  *input.InputManager

	scene    *scene.Scene
	orbit    *camera.Orbit
	binder   *viewport.Binder
	loop     *loop.Loop
	loader   *texture.Loader
	renderer *renderer.Renderer
	uploader graphics.TextureUploader
	variant  assembly.Variant

	fps          int
	frames       int
	lastFPSCheck time.Time
}

// New assembles the scene and creates the GL resources. The window's context
// must be current on the calling thread.
func New(window *glfw.Window, cfg *config.Config) (*App, error) {
	variant, err := assembly.ParseVariant(cfg.Scene.Variant)
	if err != nil {
		return nil, err
	}

	loader := texture.NewLoader(cfg.Scene.AssetRoot, cfg.Render.DecodeWorkers, cfg.Render.MaxTextureSize)
	if cfg.Scene.WatchAssets {
		if err := loader.Watch(); err != nil {
			log.Warn().Err(err).Msg("asset watching disabled")
		}
	}

	width, height := window.GetSize()
	cam := assembly.NewCamera(variant, width, height)
	res, err := assembly.Assemble(assembly.Options{
		Variant:       variant,
		ShareMaterial: cfg.Scene.ShareMaterial,
		DoorColorMap:  cfg.Scene.DoorColorMap,
	}, loader, cam)
	if err != nil {
		loader.Shutdown()
		return nil, fmt.Errorf("assemble scene: %w", err)
	}

	orbit := camera.NewOrbit(cam)
	orbit.EnableDamping = cfg.Controls.EnableDamping
	orbit.DampingFactor = cfg.Controls.DampingFactor
	orbit.RotateSpeed = cfg.Controls.RotateSpeed
	orbit.ZoomSpeed = cfg.Controls.ZoomSpeed

	a := &App{
		window:       window,
		input:        input.NewInputManager(),
		scene:        res.Scene,
		orbit:        orbit,
		loader:       loader,
		variant:      variant,
		lastFPSCheck: time.Now(),
	}

	bg := cfg.Render.ClearColor
	r, err := renderer.NewRenderer(mgl32.Vec3{bg[0], bg[1], bg[2]},
		materials.NewMaterials(),
		overlay.NewOverlay(a.stats),
	)
	if err != nil {
		loader.Shutdown()
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	r.FramebufferSize = window.GetFramebufferSize

	a.renderer = r
	a.binder = viewport.NewBinder(cam, r)
	a.loop = loop.New(res.Scene, res.Tracked, orbit, r)
	a.input.Attach(window)
	return a, nil
}

// stats feeds the overlay
func (a *App) stats() overlay.Stats {
	return overlay.Stats{
		FPS:             a.fps,
		Variant:         string(a.variant),
		Objects:         len(a.scene.Objects()),
		TexturesPending: a.loader.Pending(),
	}
}

// Loader exposes the texture loader so shutdown hooks can stop its workers
func (a *App) Loader() *texture.Loader {
	return a.loader
}

// Run drives the app from the window's event pump until the window closes
// or a frame fails
func (a *App) Run(clk clock.Clock) error {
	log.Info().Int("objects", len(a.scene.Objects())).Int("lights", len(a.scene.Lights())).Msg("starting render loop")
	return NewWindowScheduler(a.window, clk).Run(a)
}

// OnResize forwards window size changes to the viewport binder
func (a *App) OnResize(width, height int, devicePixelRatio float64) {
	a.binder.OnResize(width, height, devicePixelRatio)
}

// OnTick uploads finished textures, applies input and runs one loop frame
func (a *App) OnTick(elapsed float64) error {
	start := time.Now()

	func() {
		defer profiling.Track("texture.ProcessResults")()
		a.loader.ProcessResults(a.uploader)
	}()
	a.handleInput()

	err := a.loop.OnTick(elapsed)
	a.input.PostUpdate()
	if err != nil {
		return err
	}

	a.frames++
	if since := time.Since(a.lastFPSCheck); since >= time.Second {
		a.fps = a.frames
		log.Debug().Int("fps", a.frames).Int("textures_pending", a.loader.Pending()).Msg("frame rate")
		a.frames = 0
		a.lastFPSCheck = time.Now()
	}

	// Check if frame took too long
	if d := time.Since(start); d > slowFrame || profiling.Verbose() {
		log.Info().Dur("frame", d).Str("top", profiling.TopN(5)).Msg("frame timing")
	}
	return nil
}

// handleInput maps this frame's actions onto the orbit controls and toggles
func (a *App) handleInput() {
	im := a.input
	drag, scroll := im.TakePointer()
	_, height := a.window.GetSize()

	switch {
	case im.IsActive(input.ActionPan), im.IsActive(input.ActionOrbit) && im.IsActive(input.ActionModShift):
		a.orbit.Pan(drag[0], drag[1], height)
	case im.IsActive(input.ActionOrbit):
		a.orbit.Rotate(drag[0], drag[1], height)
	}
	a.orbit.Dolly(scroll)

	if im.JustPressed(input.ActionToggleWireframe) {
		log.Info().Bool("wireframe", config.ToggleWireframeMode()).Msg("wireframe toggled")
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		log.Info().Bool("verbose", profiling.ToggleVerbose()).Msg("frame profiling toggled")
	}
	if im.JustPressed(input.ActionResetCamera) {
		a.orbit.Reset()
	}
	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
}

// Close releases GL resources and stops the texture workers. It must run on
// the thread that owns the GL context.
func (a *App) Close() {
	a.loop.Stop()
	a.loader.Shutdown()
	for _, h := range a.loader.Handles() {
		if id := h.ID(); id != 0 {
			a.uploader.Release(id)
		}
	}
	a.renderer.Dispose()
}
