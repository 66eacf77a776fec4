package geometry

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var octahedronVertices = []mgl32.Vec3{
	{1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
	{0, -1, 0}, {0, 0, 1}, {0, 0, -1},
}

var octahedronFaces = []uint32{
	0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2,
	1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2,
}

var dodecahedronVertices, dodecahedronFaces = func() ([]mgl32.Vec3, []uint32) {
	t := float32((1 + math.Sqrt(5)) / 2)
	r := 1 / t
	verts := []mgl32.Vec3{
		{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
		{1, -1, -1}, {1, -1, 1}, {1, 1, -1}, {1, 1, 1},
		{0, -r, -t}, {0, -r, t}, {0, r, -t}, {0, r, t},
		{-r, -t, 0}, {-r, t, 0}, {r, -t, 0}, {r, t, 0},
		{-t, 0, -r}, {t, 0, -r}, {-t, 0, r}, {t, 0, r},
	}
	faces := []uint32{
		3, 11, 7, 3, 7, 15, 3, 15, 13,
		7, 19, 17, 7, 17, 6, 7, 6, 15,
		17, 4, 8, 17, 8, 10, 17, 10, 6,
		8, 0, 16, 8, 16, 2, 8, 2, 10,
		0, 12, 1, 0, 1, 18, 0, 18, 16,
		6, 10, 2, 6, 2, 13, 6, 13, 15,
		2, 16, 18, 2, 18, 3, 2, 3, 13,
		18, 1, 9, 18, 9, 11, 18, 11, 3,
		4, 14, 12, 4, 12, 0, 4, 0, 8,
		11, 9, 5, 11, 5, 19, 11, 19, 7,
		19, 5, 14, 19, 14, 4, 19, 4, 17,
		1, 12, 14, 1, 14, 5, 1, 5, 9,
	}
	return verts, faces
}()

// Octahedron is a flat-shaded regular octahedron
func Octahedron(radius float32) *Geometry {
	g := polyhedron(octahedronVertices, octahedronFaces, radius)
	g.Name = "octahedron"
	return g
}

// Dodecahedron is a flat-shaded regular dodecahedron
func Dodecahedron(radius float32) *Geometry {
	g := polyhedron(dodecahedronVertices, dodecahedronFaces, radius)
	g.Name = "dodecahedron"
	return g
}

// polyhedron projects the base vertices onto a sphere of the given radius and
// emits unshared vertices per face so every face gets its own normal.
func polyhedron(base []mgl32.Vec3, faces []uint32, radius float32) *Geometry {
	g := &Geometry{}
	for f := 0; f+2 < len(faces); f += 3 {
		a := base[faces[f]].Normalize().Mul(radius)
		b := base[faces[f+1]].Normalize().Mul(radius)
		c := base[faces[f+2]].Normalize().Mul(radius)

		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) < 0 {
			b, c = c, b
			n = n.Mul(-1)
		}

		ia := g.add(a, n, sphericalUV(a))
		ib := g.add(b, n, sphericalUV(b))
		ic := g.add(c, n, sphericalUV(c))
		g.tri(ia, ib, ic)
	}
	return g
}

func sphericalUV(p mgl32.Vec3) mgl32.Vec2 {
	d := p.Normalize()
	u := math32.Atan2(-d[2], -d[0])/(2*math.Pi) + 0.5
	v := math32.Asin(mgl32.Clamp(d[1], -1, 1))/math.Pi + 0.5
	return mgl32.Vec2{u, v}
}
