package renderer

import (
	"fmt"
	"math"

	"matcatalog/internal/config"
	"matcatalog/internal/graphics"
	"matcatalog/internal/profiling"
	"matcatalog/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
)

// Renderer orchestrates rendering via renderable features. It is the output
// surface the viewport binder sizes and the renderer the loop draws with.
type Renderer struct {
	renderables []Renderable
	clearColor  mgl32.Vec3

	// logical size and pixel ratio set by the viewport binder
	width      int
	height     int
	pixelRatio float64

	// FramebufferSize reports the window framebuffer in pixels. When nil
	// the drawing buffer is assumed to match it.
	FramebufferSize func() (int, int)

	target graphics.RenderTarget
}

// NewRenderer configures GL state and initializes the given renderables
func NewRenderer(clearColor mgl32.Vec3, rs ...Renderable) (*Renderer, error) {
	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	renderer := &Renderer{
		renderables: rs,
		clearColor:  clearColor,
		pixelRatio:  1,
	}

	// Initialize all renderables
	for _, r := range rs {
		if err := r.Init(); err != nil {
			return nil, err
		}
	}

	return renderer, nil
}

// SetSize records the logical output size
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	dw, dh := r.DrawingBufferSize()
	for _, renderable := range r.renderables {
		renderable.SetViewport(dw, dh)
	}
}

// SetPixelRatio records how many drawing-buffer pixels back one logical pixel
func (r *Renderer) SetPixelRatio(ratio float64) {
	r.pixelRatio = ratio
	if r.width > 0 && r.height > 0 {
		r.SetSize(r.width, r.height)
	}
}

// DrawingBufferSize returns the logical size scaled by the pixel ratio
func (r *Renderer) DrawingBufferSize() (int, int) {
	return int(math.Round(float64(r.width) * r.pixelRatio)), int(math.Round(float64(r.height) * r.pixelRatio))
}

// Render draws the scene from its camera. Any GL error raised while drawing
// is returned; the caller treats it as fatal.
func (r *Renderer) Render(s *scene.Scene) error {
	dw, dh := r.DrawingBufferSize()
	if dw <= 0 || dh <= 0 || s.Camera == nil {
		return nil
	}

	// only errors raised by this frame's draw are fatal
	if code := graphics.DrainErrors(); code != gl.NO_ERROR {
		log.Warn().Str("code", fmt.Sprintf("0x%x", code)).Msg("clearing stale gl error before draw")
	}

	fw, fh := dw, dh
	if r.FramebufferSize != nil {
		fw, fh = r.FramebufferSize()
	}
	offscreen := fw != dw || fh != dh
	if offscreen {
		if err := r.target.Resize(int32(dw), int32(dh)); err != nil {
			return err
		}
		r.target.Bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}

	gl.Viewport(0, 0, int32(dw), int32(dh))
	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if config.GetWireframeMode() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	// Compute view and projection matrices
	view := s.Camera.GetViewMatrix()
	ctx := RenderContext{
		Scene:   s,
		Camera:  s.Camera,
		View:    view,
		Proj:    s.Camera.GetProjectionMatrix(),
		InvView: view.Inv(),
	}

	// Render all features
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	if offscreen {
		func() {
			defer profiling.Track("renderer.Blit")()
			r.target.BlitTo(int32(fw), int32(fh))
		}()
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x after draw", code)
	}
	return nil
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	// Dispose in reverse order
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.target.Delete()
	log.Debug().Msg("renderer disposed")
}
