package glyph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bake(t *testing.T) *Atlas {
	t.Helper()
	a, err := Bake(DefaultFont(), 16)
	require.NoError(t, err)
	return a
}

func TestBakeCoversPrintableASCII(t *testing.T) {
	a := bake(t)
	for r := rune(32); r <= 126; r++ {
		assert.Contains(t, a.Glyphs, r)
	}
	assert.Greater(t, a.LineHeight, float32(0))

	size := a.Image.Rect.Size()
	assert.Equal(t, 512, size.X)
	// height is a power of two
	assert.Zero(t, size.Y&(size.Y-1))
}

func TestSpaceHasAdvanceOnly(t *testing.T) {
	a := bake(t)
	space := a.Glyphs[' ']
	assert.Zero(t, space.W)
	assert.Greater(t, space.Advance, float32(0))

	g := a.Glyphs['A']
	assert.Greater(t, g.W, float32(0))
	assert.Greater(t, g.H, float32(0))
	assert.LessOrEqual(t, g.X+g.W, float32(a.Image.Rect.Dx()))
	assert.LessOrEqual(t, g.Y+g.H, float32(a.Image.Rect.Dy()))
}

func TestGlyphsDoNotOverlap(t *testing.T) {
	a := bake(t)
	type rect struct{ x0, y0, x1, y1 float32 }
	var rects []rect
	for _, g := range a.Glyphs {
		if g.W == 0 {
			continue
		}
		rects = append(rects, rect{g.X, g.Y, g.X + g.W, g.Y + g.H})
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			p, q := rects[i], rects[j]
			overlap := p.x0 < q.x1 && q.x0 < p.x1 && p.y0 < q.y1 && q.y0 < p.y1
			assert.False(t, overlap, "%v %v", p, q)
		}
	}
}

func TestQuadsSkipBlankGlyphs(t *testing.T) {
	a := bake(t)
	assert.Len(t, a.Quads("a b", 0, 20, 1), 2*FloatsPerQuad)
	assert.Empty(t, a.Quads("   ", 0, 20, 1))
	// characters outside the atlas advance like a space
	assert.Len(t, a.Quads("é", 0, 20, 1), 0)
}

func TestMeasureMonospace(t *testing.T) {
	a := bake(t)
	w1, _ := a.Measure("iii", 1)
	w2, _ := a.Measure("WWW", 1)
	assert.Equal(t, w1, w2)

	w4, _ := a.Measure("WWW", 2)
	assert.Equal(t, 2*w2, w4)
}

func TestLinesAdvanceBaseline(t *testing.T) {
	a := bake(t)
	q := a.Lines([]string{"A", "A"}, 0, 20, 1)
	require.Len(t, q, 2*FloatsPerQuad)
	// second vertex of each quad is its top-left corner
	assert.InDelta(t, a.LineHeight, q[FloatsPerQuad+5]-q[5], 1e-4)
}
