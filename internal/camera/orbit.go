package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	orbitEpsilon = 1e-6
	moveEpsilon  = 1e-5
)

// spherical coordinates with Y up: theta around Y from +Z, phi down from +Y
type spherical struct {
	radius, theta, phi float32
}

func sphericalFrom(v mgl32.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		radius: r,
		theta:  math32.Atan2(v[0], v[2]),
		phi:    math32.Acos(mgl32.Clamp(v[1]/r, -1, 1)),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhiRadius := math32.Sin(s.phi) * s.radius
	return mgl32.Vec3{
		sinPhiRadius * math32.Sin(s.theta),
		math32.Cos(s.phi) * s.radius,
		sinPhiRadius * math32.Cos(s.theta),
	}
}

// Orbit moves a camera around its target. Input only accumulates deltas;
// Update applies them, easing them out over several frames when damping is
// enabled.
type Orbit struct {
	camera *Camera

	EnableDamping bool
	DampingFactor float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	MinDistance   float32
	MaxDistance   float32

	delta     spherical // radius unused
	scale     float32
	panOffset mgl32.Vec3

	homePosition mgl32.Vec3
	homeTarget   mgl32.Vec3
}

// NewOrbit attaches controls to c and remembers its pose for Reset
func NewOrbit(c *Camera) *Orbit {
	return &Orbit{
		camera:        c,
		EnableDamping: false,
		DampingFactor: 0.05,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MinDistance:   0,
		MaxDistance:   float32(math.Inf(1)),
		scale:         1,
		homePosition:  c.Position,
		homeTarget:    c.Target,
	}
}

// Rotate orbits by a cursor drag of dx, dy pixels in a viewport of the given height
func (o *Orbit) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	o.delta.theta -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.delta.phi -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Dolly moves toward the target for positive scroll steps and away for negative ones
func (o *Orbit) Dolly(steps float32) {
	if steps == 0 {
		return
	}
	factor := math32.Pow(0.95, o.ZoomSpeed*math32.Abs(steps))
	if steps > 0 {
		o.scale *= factor
	} else {
		o.scale /= factor
	}
}

// Pan slides camera and target by a cursor drag in a viewport of the given height
func (o *Orbit) Pan(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	offset := o.camera.Position.Sub(o.camera.Target)
	targetDistance := offset.Len() * math32.Tan(mgl32.DegToRad(o.camera.FOV/2))
	h := float32(viewportHeight)

	view := o.camera.GetViewMatrix().Inv()
	right := view.Col(0).Vec3()
	up := view.Col(1).Vec3()

	left := right.Mul(-2 * dx * targetDistance / h * o.PanSpeed)
	upward := up.Mul(2 * dy * targetDistance / h * o.PanSpeed)
	o.panOffset = o.panOffset.Add(left).Add(upward)
}

// Update applies pending input to the camera and reports whether it moved
func (o *Orbit) Update() bool {
	c := o.camera
	before := c.Position
	s := sphericalFrom(c.Position.Sub(c.Target))

	if o.EnableDamping {
		s.theta += o.delta.theta * o.DampingFactor
		s.phi += o.delta.phi * o.DampingFactor
	} else {
		s.theta += o.delta.theta
		s.phi += o.delta.phi
	}
	s.phi = mgl32.Clamp(s.phi, orbitEpsilon, math.Pi-orbitEpsilon)
	s.radius = mgl32.Clamp(s.radius*o.scale, o.MinDistance, o.MaxDistance)

	target := c.Target
	if o.EnableDamping {
		target = target.Add(o.panOffset.Mul(o.DampingFactor))
	} else {
		target = target.Add(o.panOffset)
	}

	c.Target = target
	c.Position = target.Add(s.vec())

	if o.EnableDamping {
		keep := 1 - o.DampingFactor
		o.delta.theta *= keep
		o.delta.phi *= keep
		o.panOffset = o.panOffset.Mul(keep)
	} else {
		o.delta = spherical{}
		o.panOffset = mgl32.Vec3{}
	}
	o.scale = 1

	return c.Position.Sub(before).Len() > moveEpsilon
}

// Reset returns the camera to the pose it had when the controls were created
func (o *Orbit) Reset() {
	o.camera.Position = o.homePosition
	o.camera.Target = o.homeTarget
	o.delta = spherical{}
	o.panOffset = mgl32.Vec3{}
	o.scale = 1
}
