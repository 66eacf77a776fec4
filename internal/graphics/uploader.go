package graphics

import (
	"fmt"
	"image"

	"matcatalog/internal/texture"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureUploader creates GL textures from decoded images. It must only be
// used on the thread that owns the GL context.
type TextureUploader struct{}

// maxDrainedErrors bounds the GetError loop; a lost context can report
// errors forever
const maxDrainedErrors = 16

// DrainErrors reads and clears every pending GL error flag and returns the
// first one, or NO_ERROR
func DrainErrors() uint32 {
	first := uint32(gl.NO_ERROR)
	for range maxDrainedErrors {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if first == gl.NO_ERROR {
			first = code
		}
	}
	return first
}

// Upload creates a 2D texture or a cube map depending on the handle's target.
// A GL error raised by the upload is returned and the texture deleted, so the
// failure stays with this handle.
func (u TextureUploader) Upload(h *texture.Handle, faces []*image.RGBA) (uint32, error) {
	// errors left by earlier calls must not be blamed on this upload
	DrainErrors()

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	for i, f := range faces {
		if size := f.Rect.Size(); maxSize > 0 && (int32(size.X) > maxSize || int32(size.Y) > maxSize) {
			return 0, fmt.Errorf("face %d is %v, driver limit is %d", i, size, maxSize)
		}
	}

	var tex uint32
	switch h.Target {
	case texture.Target2D:
		if len(faces) != 1 {
			return 0, fmt.Errorf("2D texture needs 1 image, got %d", len(faces))
		}
		tex = upload2D(faces[0], h.Sampling)
	case texture.TargetCube:
		if len(faces) != 6 {
			return 0, fmt.Errorf("cube map needs 6 faces, got %d", len(faces))
		}
		tex = uploadCube(faces, h.Sampling)
	default:
		return 0, fmt.Errorf("unknown texture target %d", h.Target)
	}

	if code := DrainErrors(); code != gl.NO_ERROR {
		u.Release(tex)
		return 0, fmt.Errorf("gl error 0x%x during texture upload", code)
	}
	return tex, nil
}

// Release deletes a texture created by Upload
func (TextureUploader) Release(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

func upload2D(rgba *image.RGBA, s texture.Sampling) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	wrap := wrapMode(s.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter(s))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter(s))

	// rows of odd widths are not 4-byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	if s.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func uploadCube(faces []*image.RGBA, s texture.Sampling) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)

	wrap := wrapMode(s.Wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, minFilter(s))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, magFilter(s))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, face := range faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA,
			int32(face.Rect.Size().X),
			int32(face.Rect.Size().Y),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(face.Pix),
		)
	}
	if s.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	}
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return tex
}

func wrapMode(w texture.Wrap) int32 {
	if w == texture.WrapClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func minFilter(s texture.Sampling) int32 {
	switch {
	case s.MinFilter == texture.FilterNearest && s.Mipmaps:
		return gl.NEAREST_MIPMAP_NEAREST
	case s.MinFilter == texture.FilterNearest:
		return gl.NEAREST
	case s.Mipmaps:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

func magFilter(s texture.Sampling) int32 {
	if s.MagFilter == texture.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}
