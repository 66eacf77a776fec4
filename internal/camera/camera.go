package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the view and projection matrices
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	AspectRatio float32
	FOV         float32 // vertical, degrees
	NearPlane   float32
	FarPlane    float32

	projection mgl32.Mat4
}

// NewPerspective returns a camera looking at the origin from position
func NewPerspective(fov float32, width, height int, near, far float32, position mgl32.Vec3) *Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	c := &Camera{
		Position:    position,
		Up:          mgl32.Vec3{0, 1, 0},
		AspectRatio: aspect,
		FOV:         fov,
		NearPlane:   near,
		FarPlane:    far,
	}
	c.UpdateProjection()
	return c
}

// SetAspect changes the aspect ratio and recomputes the projection
func (c *Camera) SetAspect(aspect float32) {
	c.AspectRatio = aspect
	c.UpdateProjection()
}

// UpdateProjection recomputes the cached projection matrix from FOV, aspect and planes
func (c *Camera) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// GetProjectionMatrix returns the cached projection
func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// GetViewMatrix returns the world-to-view transform
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// LookAt points the camera at target
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}
