// Package geometry builds indexed triangle meshes for the primitive shapes
// shown in the catalog.
package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout: position(3) normal(3) uv(2)
const FloatsPerVertex = 8

// Geometry is an indexed triangle mesh with CCW front faces
type Geometry struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// VertexCount returns the number of vertices
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Interleaved packs vertices as position, normal, uv
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*FloatsPerVertex)
	for i, p := range g.Positions {
		n := g.Normals[i]
		uv := g.UVs[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}

// Validate checks attribute lengths and index bounds
func (g *Geometry) Validate() error {
	n := len(g.Positions)
	if n == 0 {
		return errors.New("geometry has no vertices")
	}
	if len(g.Normals) != n || len(g.UVs) != n {
		return fmt.Errorf("%s: attribute length mismatch: %d positions, %d normals, %d uvs",
			g.Name, n, len(g.Normals), len(g.UVs))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%s: index count %d is not a multiple of 3", g.Name, len(g.Indices))
	}
	for _, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%s: index %d out of range (%d vertices)", g.Name, idx, n)
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	if len(g.Positions) == 0 {
		return
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return
}

func (g *Geometry) add(p, n mgl32.Vec3, uv mgl32.Vec2) uint32 {
	g.Positions = append(g.Positions, p)
	g.Normals = append(g.Normals, n)
	g.UVs = append(g.UVs, uv)
	return uint32(len(g.Positions) - 1)
}

func (g *Geometry) tri(a, b, c uint32) {
	g.Indices = append(g.Indices, a, b, c)
}
