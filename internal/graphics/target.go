package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// RenderTarget is an offscreen framebuffer used when the drawing resolution
// differs from the window framebuffer, e.g. when the pixel ratio is capped.
type RenderTarget struct {
	fbo    uint32
	color  uint32
	depth  uint32
	width  int32
	height int32
}

// Size returns the current drawing-buffer size
func (t *RenderTarget) Size() (int32, int32) {
	return t.width, t.height
}

// Resize (re)allocates storage when the size changes
func (t *RenderTarget) Resize(width, height int32) error {
	if t.fbo != 0 && width == t.width && height == t.height {
		return nil
	}
	t.Delete()

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenRenderbuffers(1, &t.color)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.color)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.color)

	gl.GenRenderbuffers(1, &t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Delete()
		return fmt.Errorf("offscreen framebuffer %dx%d incomplete: 0x%x", width, height, status)
	}

	t.width, t.height = width, height
	return nil
}

// Bind directs drawing into the target
func (t *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
}

// BlitTo scales the color buffer onto the default framebuffer
func (t *RenderTarget) BlitTo(width, height int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, t.width, t.height, 0, 0, width, height, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Delete frees the framebuffer and its storage
func (t *RenderTarget) Delete() {
	if t.color != 0 {
		gl.DeleteRenderbuffers(1, &t.color)
		t.color = 0
	}
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
		t.depth = 0
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	t.width, t.height = 0, 0
}
