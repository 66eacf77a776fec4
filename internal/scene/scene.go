// Package scene holds the objects, lights and camera that make up one frame.
package scene

import (
	"errors"

	"matcatalog/internal/camera"
	"matcatalog/internal/geometry"
	"matcatalog/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrFrozen is returned when adding to a scene after assembly has finished
var ErrFrozen = errors.New("scene is frozen")

// Object is a mesh placed in the scene. Rotation holds Euler angles in
// radians applied in X, Y, Z order.
type Object struct {
	Name     string
	Geometry *geometry.Geometry
	Material *material.Material
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewObject returns an object at the origin with unit scale
func NewObject(name string, g *geometry.Geometry, m *material.Material) *Object {
	return &Object{
		Name:     name,
		Geometry: g,
		Material: m,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ModelMatrix returns translate * rotate(XYZ) * scale
func (o *Object) ModelMatrix() mgl32.Mat4 {
	rot := mgl32.AnglesToQuat(o.Rotation[0], o.Rotation[1], o.Rotation[2], mgl32.XYZ).Mat4()
	return mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2]).
		Mul4(rot).
		Mul4(mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
}

// LightKind distinguishes the supported lights
type LightKind int

const (
	LightAmbient LightKind = iota
	LightPoint
)

// Light is an ambient or point light. Position is ignored for ambient lights.
type Light struct {
	Kind      LightKind
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
}

// Scene is the graph the renderer draws
type Scene struct {
	Background mgl32.Vec3
	Camera     *camera.Camera

	objects []*Object
	lights  []Light
	frozen  bool
}

// New returns an empty scene viewed through cam
func New(cam *camera.Camera) *Scene {
	return &Scene{Camera: cam}
}

// Add registers an object
func (s *Scene) Add(o *Object) error {
	if s.frozen {
		return ErrFrozen
	}
	s.objects = append(s.objects, o)
	return nil
}

// AddLight registers a light
func (s *Scene) AddLight(l Light) error {
	if s.frozen {
		return ErrFrozen
	}
	s.lights = append(s.lights, l)
	return nil
}

// Freeze ends assembly; the object list is fixed from here on
func (s *Scene) Freeze() {
	s.frozen = true
}

// Frozen reports whether assembly has finished
func (s *Scene) Frozen() bool {
	return s.frozen
}

// Objects returns the registered objects in insertion order. The slice is a
// copy; the objects are shared.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Lights returns a copy of the registered lights
func (s *Scene) Lights() []Light {
	out := make([]Light, len(s.lights))
	copy(out, s.lights)
	return out
}

// Ambient sums every ambient light into one color
func (s *Scene) Ambient() mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, l := range s.lights {
		if l.Kind == LightAmbient {
			sum = sum.Add(l.Color.Mul(l.Intensity))
		}
	}
	return sum
}

// PointLights returns the point lights in insertion order
func (s *Scene) PointLights() []Light {
	var out []Light
	for _, l := range s.lights {
		if l.Kind == LightPoint {
			out = append(out, l)
		}
	}
	return out
}
