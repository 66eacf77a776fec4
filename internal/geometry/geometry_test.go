package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allShapes() []*Geometry {
	return []*Geometry{
		Sphere(0.5, 32, 32),
		Plane(1, 1, 100, 100),
		Torus(0.3, 0.2, 16, 32),
		Box(0.7, 0.7, 0.7),
		Cone(0.5, 1, 32),
		Cylinder(0.3, 0.3, 1, 32),
		Octahedron(0.5),
		Dodecahedron(0.4),
		TorusKnot(0.3, 0.1, 100, 16, 2, 3),
	}
}

func TestShapesAreValid(t *testing.T) {
	for _, g := range allShapes() {
		t.Run(g.Name, func(t *testing.T) {
			require.NoError(t, g.Validate())
			assert.NotZero(t, g.TriangleCount())
			for i, n := range g.Normals {
				assert.InDelta(t, 1.0, n.Len(), 1e-4, "normal %d", i)
			}
		})
	}
}

func TestVertexCounts(t *testing.T) {
	tests := []struct {
		g    *Geometry
		want int
	}{
		{Sphere(1, 32, 16), 33 * 17},
		{Plane(1, 1, 4, 2), 5 * 3},
		{Torus(1, 0.2, 16, 32), 17 * 33},
		{Box(1, 2, 3), 24},
		{Octahedron(1), 24},
		{Dodecahedron(1), 36 * 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.g.VertexCount(), tt.g.Name)
	}
}

func TestClosedShapesFaceOutward(t *testing.T) {
	shapes := []*Geometry{
		Sphere(0.5, 16, 12),
		Torus(0.3, 0.2, 8, 16),
		Box(1, 1, 1),
		Cylinder(0.3, 0.3, 1, 12),
		Cone(0.5, 1, 12),
		Octahedron(0.5),
		Dodecahedron(0.4),
	}
	for _, g := range shapes {
		t.Run(g.Name, func(t *testing.T) {
			for i := 0; i < len(g.Indices); i += 3 {
				a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
				pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
				face := pb.Sub(pa).Cross(pc.Sub(pa))
				if face.Len() < 1e-9 {
					continue
				}
				avg := g.Normals[a].Add(g.Normals[b]).Add(g.Normals[c])
				assert.Greater(t, face.Dot(avg), float32(0), "triangle %d winds inward", i/3)
			}
		})
	}
}

func TestBoxBounds(t *testing.T) {
	min, max := Box(0.7, 0.7, 0.7).Bounds()
	assert.InDelta(t, -0.35, min[0], 1e-6)
	assert.InDelta(t, 0.35, max[1], 1e-6)
	assert.InDelta(t, 0.35, max[2], 1e-6)
}

func TestPolyhedronVerticesOnSphere(t *testing.T) {
	for _, g := range []*Geometry{Octahedron(0.5), Dodecahedron(0.4)} {
		r := g.Positions[0].Len()
		for _, p := range g.Positions {
			assert.InDelta(t, r, p.Len(), 1e-5, g.Name)
		}
	}
}

func TestInterleavedLayout(t *testing.T) {
	g := Plane(2, 2, 1, 1)
	data := g.Interleaved()
	require.Len(t, data, g.VertexCount()*FloatsPerVertex)

	// first vertex: top-left corner, +Z normal, uv (0,1)
	assert.Equal(t, []float32{-1, 1, 0, 0, 0, 1, 0, 1}, data[:FloatsPerVertex])
}

func TestValidateCatchesBadIndices(t *testing.T) {
	g := &Geometry{
		Name:      "broken",
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}},
		Indices:   []uint32{0, 0, 3},
	}
	assert.ErrorContains(t, g.Validate(), "out of range")
}
