// Package assembly builds the material catalog scene once at startup.
package assembly

import (
	"fmt"

	"matcatalog/internal/camera"
	"matcatalog/internal/geometry"
	"matcatalog/internal/material"
	"matcatalog/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
)

// Variant selects one of the scene layouts
type Variant string

const (
	VariantCatalog Variant = "catalog"
	VariantGallery Variant = "gallery"
	VariantTrio    Variant = "trio"
)

// Variants lists every known layout
var Variants = []Variant{VariantCatalog, VariantGallery, VariantTrio}

// ParseVariant maps a config string to a Variant
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown scene variant %q", s)
}

// Options controls one assembly run
type Options struct {
	Variant Variant
	// ShareMaterial makes meshes of the same catalog entry share one
	// material instead of each holding its own copy.
	ShareMaterial bool
	// DoorColorMap overrides the color input of the door materials.
	// Empty means DoorColorPath.
	DoorColorMap string
}

// Result is the assembled scene and the objects the loop animates
type Result struct {
	Scene   *scene.Scene
	Tracked []*scene.Object
}

// Camera defaults
const (
	FOV  = 75
	Near = 0.1
	Far  = 100
)

// NewCamera returns the perspective camera framing the given variant
func NewCamera(v Variant, width, height int) *camera.Camera {
	pos := mgl32.Vec3{1, 1, 2}
	if v == VariantGallery || v == VariantTrio {
		pos = mgl32.Vec3{0, 0.5, 5.5}
	}
	return camera.NewPerspective(FOV, width, height, Near, Far, pos)
}

// Lights shared by every variant
var (
	AmbientLight = scene.Light{Kind: scene.LightAmbient, Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.5}
	PointLight   = scene.Light{Kind: scene.LightPoint, Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.5, Position: mgl32.Vec3{2, 3, 4}}
)

// placement is one object to add
type placement struct {
	name     string
	geometry *geometry.Geometry
	material *material.Material
	position mgl32.Vec3
}

// Assemble requests textures, builds the variant's objects, adds the lights
// and freezes the scene. It never waits on texture loads.
func Assemble(opts Options, src TextureSource, cam *camera.Camera) (*Result, error) {
	if cam == nil {
		return nil, fmt.Errorf("assemble %s: nil camera", opts.Variant)
	}
	if src == nil {
		return nil, fmt.Errorf("assemble %s: nil texture source", opts.Variant)
	}
	doorColor := opts.DoorColorMap
	if doorColor == "" {
		doorColor = DoorColorPath
	}
	tex := loadTextures(src, doorColor)

	var items []placement
	switch opts.Variant {
	case VariantCatalog, "":
		items = catalogLayout(tex)
	case VariantGallery:
		items = galleryLayout(tex)
	case VariantTrio:
		items = trioLayout(tex, opts.ShareMaterial)
	default:
		return nil, fmt.Errorf("assemble: unknown scene variant %q", opts.Variant)
	}

	s := scene.New(cam)
	tracked := make([]*scene.Object, 0, len(items))
	for _, it := range items {
		obj := scene.NewObject(it.name, it.geometry, it.material)
		obj.Position = it.position
		if err := s.Add(obj); err != nil {
			return nil, fmt.Errorf("add %s: %w", it.name, err)
		}
		tracked = append(tracked, obj)
	}
	for _, l := range []scene.Light{AmbientLight, PointLight} {
		if err := s.AddLight(l); err != nil {
			return nil, fmt.Errorf("add light: %w", err)
		}
	}
	s.Freeze()

	log.Info().
		Str("variant", string(opts.Variant)).
		Bool("share_material", opts.ShareMaterial).
		Int("objects", len(tracked)).
		Msg("scene assembled")

	return &Result{Scene: s, Tracked: tracked}, nil
}

// catalogLayout is one object per catalog entry on a 3x3 grid. The box and
// the dodecahedron share the bottom centre cell.
func catalogLayout(t *textures) []placement {
	return []placement{
		{"sphere", geometry.Sphere(0.5, 32, 32), basicMaterial(t), mgl32.Vec3{-1.5, 0, 0}},
		{"plane", geometry.Plane(1, 1, 100, 100), normalMaterial(), mgl32.Vec3{0, 0, 0}},
		{"torus", geometry.Torus(0.3, 0.2, 16, 32), matcapMaterial(t), mgl32.Vec3{1.5, 0, 0}},
		{"box", geometry.Box(0.7, 0.7, 0.7), depthMaterial(), mgl32.Vec3{0, -1.5, 0}},
		{"cone", geometry.Cone(0.5, 1, 32), lambertMaterial(), mgl32.Vec3{-1.5, 1.5, 0}},
		{"cylinder", geometry.Cylinder(0.3, 0.3, 1, 32), phongMaterial(), mgl32.Vec3{0, 1.5, 0}},
		{"octahedron", geometry.Octahedron(0.5), toonMaterial(t), mgl32.Vec3{1.5, 1.5, 0}},
		{"detailed sphere", geometry.Sphere(0.5, 64, 64), doorStandardMaterial(t), mgl32.Vec3{-1.5, -1.5, 0}},
		{"dodecahedron", geometry.Dodecahedron(0.4), physicalMaterial(), mgl32.Vec3{0, -1.5, 0}},
		{"torus knot", geometry.TorusKnot(0.3, 0.1, 100, 16, 2, 3), environmentMaterial(t), mgl32.Vec3{1.5, -1.5, 0}},
	}
}

// galleryLayout lays the catalog plus two showcase pieces on a 4x3 grid
func galleryLayout(t *textures) []placement {
	items := catalogLayout(t)
	items = append(items,
		placement{"door", geometry.Plane(1, 1, 1, 1), alphaDoorMaterial(t), mgl32.Vec3{}},
		placement{"clearcoat sphere", geometry.Sphere(0.5, 64, 64), clearcoatEnvironmentMaterial(t), mgl32.Vec3{}},
	)
	const cols, spacing = 4, 1.5
	for i := range items {
		col, row := i%cols, i/cols
		items[i].position = mgl32.Vec3{
			(float32(col) - (cols-1)/2.0) * spacing,
			(1 - float32(row)) * spacing,
			0,
		}
	}
	return items
}

// trioLayout applies four materials to the same three shapes, one row per
// material.
func trioLayout(t *textures, share bool) []placement {
	shapes := []struct {
		name string
		geom *geometry.Geometry
	}{
		{"sphere", geometry.Sphere(0.5, 16, 16)},
		{"plane", geometry.Plane(1, 1, 1, 1)},
		{"torus", geometry.Torus(0.3, 0.2, 16, 32)},
	}
	entries := []*material.Material{
		basicMaterial(t),
		matcapMaterial(t),
		doorStandardMaterial(t),
		clearcoatEnvironmentMaterial(t),
	}
	// the plane is seen from behind half the time
	entries[0].DoubleSided = true

	items := make([]placement, 0, len(entries)*len(shapes))
	for row, m := range entries {
		y := (1.5 - float32(row)) * 1.5
		for col, shape := range shapes {
			mat := m
			if !share {
				mat = m.Clone()
			}
			items = append(items, placement{
				name:     m.Kind.String() + " " + shape.name,
				geometry: shape.geom,
				material: mat,
				position: mgl32.Vec3{float32(col-1) * 1.5, y, 0},
			})
		}
	}
	return items
}
