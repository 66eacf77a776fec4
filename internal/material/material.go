// Package material describes the fixed catalog of shading models and the
// parameters each one reads.
package material

import (
	"fmt"

	"matcatalog/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind is one shading model of the catalog
type Kind int

const (
	KindBasic    Kind = iota // unlit color
	KindNormal               // view-space normal visualization
	KindMatcap               // precomputed lighting capture
	KindDepth                // depth visualization
	KindLambert              // diffuse lit
	KindPhong                // specular lit
	KindToon                 // stylized quantized lit
	KindStandard             // physically based
	KindPhysical             // physically based with clear-coat
	KindCount
)

var kindNames = [KindCount]string{
	"basic", "normal", "matcap", "depth", "lambert", "phong", "toon", "standard", "physical",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Lit reports whether the kind needs scene lights to be visible
func (k Kind) Lit() bool {
	switch k {
	case KindLambert, KindPhong, KindToon, KindStandard, KindPhysical:
		return true
	}
	return false
}

// Maps are the optional texture inputs. A nil or unresolved handle means the
// input is absent and the shader falls back to the scalar parameter.
type Maps struct {
	Color        *texture.Handle
	Alpha        *texture.Handle
	Matcap       *texture.Handle
	Gradient     *texture.Handle
	AO           *texture.Handle
	Displacement *texture.Handle
	Normal       *texture.Handle
	Metalness    *texture.Handle
	Roughness    *texture.Handle
	Env          *texture.Handle
}

// Material is a catalog entry with its tunables
type Material struct {
	Kind  Kind
	Color mgl32.Vec3

	FlatShading bool
	Transparent bool
	Opacity     float32
	DoubleSided bool

	// phong
	Shininess float32
	Specular  mgl32.Vec3

	// standard / physical
	Metalness          float32
	Roughness          float32
	AOIntensity        float32
	DisplacementScale  float32
	NormalScale        mgl32.Vec2
	EnvIntensity       float32
	Clearcoat          float32
	ClearcoatRoughness float32

	Maps Maps
}

// New returns a material of the given kind with the defaults of its shading model
func New(kind Kind) *Material {
	m := &Material{
		Kind:        kind,
		Color:       mgl32.Vec3{1, 1, 1},
		Opacity:     1,
		Shininess:   30,
		Specular:    Hex(0x111111),
		Metalness:   0,
		Roughness:   1,
		AOIntensity: 1,
		NormalScale: mgl32.Vec2{1, 1},
		// displacement defaults to a unit scale once a map is present
		DisplacementScale: 1,
		EnvIntensity:      1,
	}
	return m
}

// Clone returns an independent copy sharing the same texture handles
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Handles lists every non-nil texture input
func (m *Material) Handles() []*texture.Handle {
	all := []*texture.Handle{
		m.Maps.Color, m.Maps.Alpha, m.Maps.Matcap, m.Maps.Gradient, m.Maps.AO,
		m.Maps.Displacement, m.Maps.Normal, m.Maps.Metalness, m.Maps.Roughness, m.Maps.Env,
	}
	out := all[:0]
	for _, h := range all {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Hex converts a 0xRRGGBB literal to linear-ish RGB in [0,1]
func Hex(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((rgb>>16)&0xff) / 255,
		float32((rgb>>8)&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}
