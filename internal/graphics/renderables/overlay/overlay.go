// Package overlay draws frame statistics in the top-left corner while frame
// profiling is switched on.
package overlay

import (
	"fmt"

	"matcatalog/internal/config"
	"matcatalog/internal/glyph"
	"matcatalog/internal/graphics"
	renderer "matcatalog/internal/graphics/renderer"
	"matcatalog/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	fontPixels = 16
	margin     = 10
)

// Stats is sampled once per drawn frame
type Stats struct {
	FPS             int
	Variant         string
	Objects         int
	TexturesPending int
}

// Overlay implements renderer.Renderable
type Overlay struct {
	font  *graphics.FontRenderer
	stats func() Stats
	color mgl32.Vec3
	scale float32
}

// NewOverlay reads its lines from stats on every visible frame
func NewOverlay(stats func() Stats) *Overlay {
	return &Overlay{
		stats: stats,
		color: mgl32.Vec3{1, 1, 1},
		scale: 1,
	}
}

// Init bakes the font atlas and uploads it
func (o *Overlay) Init() error {
	atlas, err := glyph.Bake(glyph.DefaultFont(), fontPixels)
	if err != nil {
		return fmt.Errorf("bake overlay font: %w", err)
	}
	o.font, err = graphics.NewFontRenderer(atlas)
	return err
}

// SetViewport matches the text projection to the drawing buffer
func (o *Overlay) SetViewport(width, height int) {
	if o.font != nil {
		o.font.SetViewport(width, height)
	}
}

func (o *Overlay) lines() []string {
	s := o.stats()
	wire := "off"
	if config.GetWireframeMode() {
		wire = "on"
	}
	return []string{
		fmt.Sprintf("%d fps  %s", s.FPS, s.Variant),
		fmt.Sprintf("objects %d  textures pending %d", s.Objects, s.TexturesPending),
		fmt.Sprintf("wireframe %s", wire),
		profiling.TopN(4),
	}
}

// Render draws nothing unless profiling is verbose
func (o *Overlay) Render(ctx renderer.RenderContext) {
	if o.font == nil || !profiling.Verbose() {
		return
	}
	defer profiling.Track("overlay.Render")()

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	y := margin + o.font.LineHeight(o.scale)
	o.font.RenderLines(o.lines(), margin, y, o.scale, o.color)
}

// Dispose frees the font resources
func (o *Overlay) Dispose() {
	if o.font != nil {
		o.font.Delete()
		o.font = nil
	}
}
