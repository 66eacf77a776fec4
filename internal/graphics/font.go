package graphics

import (
	"fmt"

	"matcatalog/internal/glyph"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	TextVertShader = "shaders/text.vert"
	TextFragShader = "shaders/text.frag"
)

// FontRenderer draws screen-space text from a baked glyph atlas
type FontRenderer struct {
	atlas      *glyph.Atlas
	textureID  uint32
	shader     *Shader
	projection mgl32.Mat4
	vao        uint32
	vbo        uint32
	capFloats  int
}

// NewFontRenderer uploads the atlas and compiles the text shader
func NewFontRenderer(atlas *glyph.Atlas) (*FontRenderer, error) {
	if atlas == nil || len(atlas.Glyphs) == 0 {
		return nil, fmt.Errorf("invalid font atlas")
	}
	shader, err := NewShader(Shaders, TextVertShader, TextFragShader)
	if err != nil {
		return nil, err
	}
	fr := &FontRenderer{
		atlas:     atlas,
		shader:    shader,
		capFloats: 256 * glyph.FloatsPerQuad,
	}
	fr.SetViewport(1, 1)
	fr.initGL()
	return fr, nil
}

func (fr *FontRenderer) initGL() {
	img := fr.atlas.Image
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())

	gl.GenTextures(1, &fr.textureID)
	gl.BindTexture(gl.TEXTURE_2D, fr.textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, w, h, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &fr.vao)
	gl.GenBuffers(1, &fr.vbo)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, fr.capFloats*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// SetViewport sets a y-down pixel projection for a viewport of the given size
func (fr *FontRenderer) SetViewport(width, height int) {
	fr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// LineHeight returns the baseline step at scale
func (fr *FontRenderer) LineHeight(scale float32) float32 {
	return fr.atlas.LineHeight * scale
}

// Measure returns the width and height in pixels text occupies at scale
func (fr *FontRenderer) Measure(text string, scale float32) (float32, float32) {
	return fr.atlas.Measure(text, scale)
}

// RenderLines draws lines in a single pass, the first baseline at (x, y)
func (fr *FontRenderer) RenderLines(lines []string, x, y, scale float32, color mgl32.Vec3) {
	verts := fr.atlas.Lines(lines, x, y, scale)
	if len(verts) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	fr.shader.Use()
	fr.shader.SetVec3("textColor", color)
	fr.shader.SetMatrix4("projection", fr.projection)
	fr.shader.SetInt("text", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fr.textureID)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)

	// Orphan the buffer each frame to avoid stalls on dynamic updates
	size := len(verts) * 4
	if len(verts) > fr.capFloats {
		fr.capFloats = len(verts)
	}
	gl.BufferData(gl.ARRAY_BUFFER, fr.capFloats*4, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/4))

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Delete frees the atlas texture, buffers and shader
func (fr *FontRenderer) Delete() {
	gl.DeleteTextures(1, &fr.textureID)
	gl.DeleteBuffers(1, &fr.vbo)
	gl.DeleteVertexArrays(1, &fr.vao)
	fr.shader.Delete()
}
