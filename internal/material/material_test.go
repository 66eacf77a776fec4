package material

import (
	"testing"

	"matcatalog/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBasic, "basic"},
		{KindNormal, "normal"},
		{KindMatcap, "matcap"},
		{KindDepth, "depth"},
		{KindLambert, "lambert"},
		{KindPhong, "phong"},
		{KindToon, "toon"},
		{KindStandard, "standard"},
		{KindPhysical, "physical"},
		{KindCount, "Kind(9)"},
		{Kind(-1), "Kind(-1)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestKindLit(t *testing.T) {
	unlit := []Kind{KindBasic, KindNormal, KindMatcap, KindDepth}
	for _, k := range unlit {
		assert.False(t, k.Lit(), k.String())
	}
	lit := []Kind{KindLambert, KindPhong, KindToon, KindStandard, KindPhysical}
	for _, k := range lit {
		assert.True(t, k.Lit(), k.String())
	}
}

func TestNewDefaults(t *testing.T) {
	m := New(KindPhong)
	assert.Equal(t, KindPhong, m.Kind)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Color)
	assert.Equal(t, float32(1), m.Opacity)
	assert.Equal(t, float32(30), m.Shininess)
	assert.Equal(t, float32(1), m.Roughness)
	assert.Equal(t, float32(0), m.Metalness)
	assert.Empty(t, m.Handles())
}

func TestCloneIsIndependent(t *testing.T) {
	h := &texture.Handle{Target: texture.Target2D, Paths: []string{"a.png"}}
	m := New(KindStandard)
	m.Maps.Color = h

	c := m.Clone()
	c.Color = Hex(0xff0000)
	c.Roughness = 0.2

	assert.NotSame(t, m, c)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Color)
	assert.Equal(t, float32(1), m.Roughness)
	// texture inputs stay shared
	assert.Same(t, h, c.Maps.Color)
}

func TestHandlesSkipsUnset(t *testing.T) {
	color := &texture.Handle{Paths: []string{"color.jpg"}}
	env := &texture.Handle{Target: texture.TargetCube}
	m := New(KindPhysical)
	m.Maps.Color = color
	m.Maps.Env = env

	hs := m.Handles()
	assert.Len(t, hs, 2)
	assert.Same(t, color, hs[0])
	assert.Same(t, env, hs[1])
}

func TestHex(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, Hex(0xff0000))
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, Hex(0))
	v := Hex(0x1188ff)
	assert.InDelta(t, 17.0/255, v[0], 1e-6)
	assert.InDelta(t, 136.0/255, v[1], 1e-6)
	assert.InDelta(t, 1, v[2], 1e-6)
}
