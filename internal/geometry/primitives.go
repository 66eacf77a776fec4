package geometry

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const twoPi = 2 * math.Pi

// Sphere is a UV sphere centered on the origin
func Sphere(radius float32, widthSegs, heightSegs int) *Geometry {
	widthSegs = max(widthSegs, 3)
	heightSegs = max(heightSegs, 2)
	g := &Geometry{Name: "sphere"}

	grid := make([][]uint32, heightSegs+1)
	for iy := 0; iy <= heightSegs; iy++ {
		v := float32(iy) / float32(heightSegs)
		row := make([]uint32, widthSegs+1)
		for ix := 0; ix <= widthSegs; ix++ {
			u := float32(ix) / float32(widthSegs)
			p := mgl32.Vec3{
				-radius * math32.Cos(u*twoPi) * math32.Sin(v*math.Pi),
				radius * math32.Cos(v*math.Pi),
				radius * math32.Sin(u*twoPi) * math32.Sin(v*math.Pi),
			}
			n := p.Normalize()
			if p.Len() == 0 {
				n = mgl32.Vec3{0, 1, 0}
			}
			row[ix] = g.add(p, n, mgl32.Vec2{u, 1 - v})
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegs; iy++ {
		for ix := 0; ix < widthSegs; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.tri(a, b, d)
			}
			if iy != heightSegs-1 {
				g.tri(b, c, d)
			}
		}
	}
	return g
}

// Plane lies in XY facing +Z
func Plane(width, height float32, widthSegs, heightSegs int) *Geometry {
	widthSegs = max(widthSegs, 1)
	heightSegs = max(heightSegs, 1)
	g := &Geometry{Name: "plane"}

	segW := width / float32(widthSegs)
	segH := height / float32(heightSegs)
	normal := mgl32.Vec3{0, 0, 1}
	for iy := 0; iy <= heightSegs; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix <= widthSegs; ix++ {
			x := float32(ix)*segW - width/2
			uv := mgl32.Vec2{float32(ix) / float32(widthSegs), 1 - float32(iy)/float32(heightSegs)}
			g.add(mgl32.Vec3{x, -y, 0}, normal, uv)
		}
	}

	stride := uint32(widthSegs + 1)
	for iy := 0; iy < heightSegs; iy++ {
		for ix := 0; ix < widthSegs; ix++ {
			a := uint32(ix) + stride*uint32(iy)
			b := uint32(ix) + stride*uint32(iy+1)
			c := uint32(ix+1) + stride*uint32(iy+1)
			d := uint32(ix+1) + stride*uint32(iy)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g
}

// Torus lies in XY around the Z axis
func Torus(radius, tube float32, radialSegs, tubularSegs int) *Geometry {
	radialSegs = max(radialSegs, 3)
	tubularSegs = max(tubularSegs, 3)
	g := &Geometry{Name: "torus"}

	for j := 0; j <= radialSegs; j++ {
		for i := 0; i <= tubularSegs; i++ {
			u := float32(i) / float32(tubularSegs) * twoPi
			v := float32(j) / float32(radialSegs) * twoPi

			p := mgl32.Vec3{
				(radius + tube*math32.Cos(v)) * math32.Cos(u),
				(radius + tube*math32.Cos(v)) * math32.Sin(u),
				tube * math32.Sin(v),
			}
			center := mgl32.Vec3{radius * math32.Cos(u), radius * math32.Sin(u), 0}
			uv := mgl32.Vec2{float32(i) / float32(tubularSegs), float32(j) / float32(radialSegs)}
			g.add(p, p.Sub(center).Normalize(), uv)
		}
	}

	stride := uint32(tubularSegs + 1)
	for j := 1; j <= radialSegs; j++ {
		for i := 1; i <= tubularSegs; i++ {
			a := stride*uint32(j) + uint32(i-1)
			b := stride*uint32(j-1) + uint32(i-1)
			c := stride*uint32(j-1) + uint32(i)
			d := stride*uint32(j) + uint32(i)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g
}

// Box is an axis-aligned cuboid with one quad per face
func Box(width, height, depth float32) *Geometry {
	g := &Geometry{Name: "box"}
	half := mgl32.Vec3{width / 2, height / 2, depth / 2}

	// u x v == normal keeps every face CCW from outside
	faces := [6][3]mgl32.Vec3{
		{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
		{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
		{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		var idx [4]uint32
		for k, c := range corners {
			p := mulElem(n, half).
				Add(mulElem(u, half).Mul(2*c[0] - 1)).
				Add(mulElem(v, half).Mul(2*c[1] - 1))
			idx[k] = g.add(p, n, c)
		}
		g.tri(idx[0], idx[1], idx[2])
		g.tri(idx[0], idx[2], idx[3])
	}
	return g
}

// Cylinder is centered on the origin along Y. A zero top radius gives a cone.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegs int) *Geometry {
	radialSegs = max(radialSegs, 3)
	g := &Geometry{Name: "cylinder"}
	halfH := height / 2
	slope := (radiusBottom - radiusTop) / height

	// torso: a single height segment
	var rows [2][]uint32
	for y := 0; y <= 1; y++ {
		v := float32(y)
		r := v*(radiusBottom-radiusTop) + radiusTop
		row := make([]uint32, radialSegs+1)
		for x := 0; x <= radialSegs; x++ {
			u := float32(x) / float32(radialSegs)
			s, c := math32.Sin(u*twoPi), math32.Cos(u*twoPi)
			p := mgl32.Vec3{r * s, -v*height + halfH, r * c}
			n := mgl32.Vec3{s, slope, c}.Normalize()
			row[x] = g.add(p, n, mgl32.Vec2{u, 1 - v})
		}
		rows[y] = row
	}
	for x := 0; x < radialSegs; x++ {
		a, b := rows[0][x], rows[1][x]
		c, d := rows[1][x+1], rows[0][x+1]
		if radiusTop > 0 {
			g.tri(a, b, d)
		}
		if radiusBottom > 0 {
			g.tri(b, c, d)
		}
	}

	if radiusTop > 0 {
		g.cap(radiusTop, halfH, radialSegs, true)
	}
	if radiusBottom > 0 {
		g.cap(radiusBottom, -halfH, radialSegs, false)
	}
	if radiusTop == 0 {
		g.Name = "cone"
	}
	return g
}

// Cone is a cylinder with a zero top radius
func Cone(radius, height float32, radialSegs int) *Geometry {
	return Cylinder(0, radius, height, radialSegs)
}

func (g *Geometry) cap(radius, y float32, radialSegs int, top bool) {
	sign := float32(1)
	if !top {
		sign = -1
	}
	n := mgl32.Vec3{0, sign, 0}
	center := g.add(mgl32.Vec3{0, y, 0}, n, mgl32.Vec2{0.5, 0.5})
	ring := make([]uint32, radialSegs+1)
	for x := 0; x <= radialSegs; x++ {
		u := float32(x) / float32(radialSegs)
		s, c := math32.Sin(u*twoPi), math32.Cos(u*twoPi)
		uv := mgl32.Vec2{c*0.5 + 0.5, s*0.5*sign + 0.5}
		ring[x] = g.add(mgl32.Vec3{radius * s, y, radius * c}, n, uv)
	}
	for x := 0; x < radialSegs; x++ {
		if top {
			g.tri(center, ring[x], ring[x+1])
		} else {
			g.tri(center, ring[x+1], ring[x])
		}
	}
}

// TorusKnot winds a tube around a (p, q) torus knot curve
func TorusKnot(radius, tube float32, tubularSegs, radialSegs, p, q int) *Geometry {
	tubularSegs = max(tubularSegs, 3)
	radialSegs = max(radialSegs, 3)
	g := &Geometry{Name: "torusknot"}

	curve := func(u float32) mgl32.Vec3 {
		cu, su := math32.Cos(u), math32.Sin(u)
		quOverP := float32(q) / float32(p) * u
		cs := math32.Cos(quOverP)
		return mgl32.Vec3{
			radius * (2 + cs) * 0.5 * cu,
			radius * (2 + cs) * su * 0.5,
			radius * math32.Sin(quOverP) * 0.5,
		}
	}

	for i := 0; i <= tubularSegs; i++ {
		u := float32(i) / float32(tubularSegs) * float32(p) * twoPi
		p1 := curve(u)
		p2 := curve(u + 0.01)

		t := p2.Sub(p1)
		n := p2.Add(p1)
		b := t.Cross(n)
		n = b.Cross(t)
		b = b.Normalize()
		n = n.Normalize()

		for j := 0; j <= radialSegs; j++ {
			v := float32(j) / float32(radialSegs) * twoPi
			cx := -tube * math32.Cos(v)
			cy := tube * math32.Sin(v)
			pos := p1.Add(n.Mul(cx)).Add(b.Mul(cy))
			uv := mgl32.Vec2{float32(i) / float32(tubularSegs), float32(j) / float32(radialSegs)}
			g.add(pos, pos.Sub(p1).Normalize(), uv)
		}
	}

	stride := uint32(radialSegs + 1)
	for j := 1; j <= tubularSegs; j++ {
		for i := 1; i <= radialSegs; i++ {
			a := stride*uint32(j-1) + uint32(i-1)
			b := stride*uint32(j) + uint32(i-1)
			c := stride*uint32(j) + uint32(i)
			d := stride*uint32(j-1) + uint32(i)
			g.tri(a, b, d)
			g.tri(b, c, d)
		}
	}
	return g
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
