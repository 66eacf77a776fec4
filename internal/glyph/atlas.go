// Package glyph bakes a font into a single-channel atlas and lays out text as
// textured quads.
package glyph

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FloatsPerQuad is 6 vertices of x, y, u, v
const FloatsPerQuad = 6 * 4

// Glyph describes a single character's placement and metrics within the atlas
type Glyph struct {
	// Pixel coordinates of the glyph in the atlas (top-left origin)
	X, Y float32
	// Bitmap size in pixels
	W, H float32
	// Offset from the pen position on the baseline
	BearingX, BearingY float32
	Advance            float32
}

// Atlas is an alpha image holding every baked glyph
type Atlas struct {
	Image      *image.Alpha
	Glyphs     map[rune]Glyph
	LineHeight float32
}

// DefaultFont is the monospace face used for overlays
func DefaultFont() []byte {
	return gomono.TTF
}

// Bake rasterizes the printable ASCII range of an OpenType font at the given
// pixel size
func Bake(ttf []byte, pixels float64) (*Atlas, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: pixels, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	const (
		atlasW  = 512
		padding = 1
	)

	// First pass: pack rows to find the atlas height
	offsetX, offsetY, rowH := 0, 0, 0
	for r := rune(32); r <= 126; r++ {
		dr, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil || dr.Empty() {
			continue
		}
		if offsetX+dr.Dx()+padding > atlasW {
			offsetX = 0
			offsetY += rowH + padding
			rowH = 0
		}
		offsetX += dr.Dx() + padding
		rowH = max(rowH, dr.Dy())
	}
	atlasH := nextPow2(offsetY + rowH + padding)

	atlas := &Atlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasW, atlasH)),
		Glyphs:     make(map[rune]Glyph),
		LineHeight: float32(face.Metrics().Height.Ceil()),
	}

	// Second pass: render each glyph into the atlas and record metrics
	offsetX, offsetY, rowH = 0, 0, 0
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		g := Glyph{
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  float32(math.Round(float64(advance) / 64.0)),
		}
		gw, gh := dr.Dx(), dr.Dy()
		if mask == nil || dr.Empty() {
			// Space or non-drawable glyph; still record advance
			atlas.Glyphs[r] = g
			continue
		}

		if offsetX+gw+padding > atlasW {
			offsetX = 0
			offsetY += rowH + padding
			rowH = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh)
		draw.Draw(atlas.Image, dst, mask, maskp, draw.Src)

		g.X, g.Y = float32(offsetX), float32(offsetY)
		g.W, g.H = float32(gw), float32(gh)
		atlas.Glyphs[r] = g

		offsetX += gw + padding
		rowH = max(rowH, gh)
	}
	return atlas, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Measure returns the width and tallest glyph height of text at scale
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		g := a.glyph(r)
		width += g.Advance * scale
		maxH = max(maxH, g.H*scale)
	}
	return width, maxH
}

// glyph falls back to the space advance for characters outside the atlas
func (a *Atlas) glyph(r rune) Glyph {
	if g, ok := a.Glyphs[r]; ok {
		return g
	}
	return Glyph{Advance: a.Glyphs[' '].Advance}
}

// Quads lays out text with its baseline at y, in a y-down pixel space
func (a *Atlas) Quads(text string, x, y, scale float32) []float32 {
	out := make([]float32, 0, len(text)*FloatsPerQuad)
	aw := float32(a.Image.Rect.Dx())
	ah := float32(a.Image.Rect.Dy())
	for _, r := range text {
		g := a.glyph(r)
		if g.W > 0 && g.H > 0 {
			x0 := x + g.BearingX*scale
			y0 := y - g.BearingY*scale
			x1 := x0 + g.W*scale
			y1 := y0 + g.H*scale
			u0, v0 := g.X/aw, g.Y/ah
			u1, v1 := (g.X+g.W)/aw, (g.Y+g.H)/ah
			out = append(out,
				x0, y1, u0, v1,
				x0, y0, u0, v0,
				x1, y0, u1, v0,
				x0, y1, u0, v1,
				x1, y0, u1, v0,
				x1, y1, u1, v1,
			)
		}
		x += g.Advance * scale
	}
	return out
}

// Lines lays out several lines starting at baseline y, one LineHeight apart
func (a *Atlas) Lines(lines []string, x, y, scale float32) []float32 {
	var out []float32
	for _, line := range lines {
		out = append(out, a.Quads(line, x, y, scale)...)
		y += a.LineHeight * scale
	}
	return out
}
