package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Body is the capability set the rendering collaborator consumes.
type Body interface {
	Advance(dt float64)
	Position() mgl64.Vec3
	Rotation() mgl64.Vec3
	Scale() float64
	MaterialTag() string
	Name() string
}

var _ Body = (*OrbitalBody)(nil)

// OrbitalBody spins about its own Y axis and follows an orbit around its
// parent. It exclusively owns its satellites.
//
// position always equals the orbit offset at orbitAngle plus the parent's
// position from the same tick.
type OrbitalBody struct {
	name          string
	material      string
	scale         float64
	rotation      mgl64.Vec3
	rotationSpeed float64

	orbit      OrbitParams
	orbitAngle float64
	motion     MotionModel // nil for circular orbits
	ring       bool

	local    mgl64.Vec3 // parent-relative offset
	position mgl64.Vec3 // world space

	satellites []*OrbitalBody
}

// NewOrbitalBody creates a body at its orbit's initial phase.
func NewOrbitalBody(name, material string, scale float64, orbit OrbitParams, rotationSpeed float64) *OrbitalBody {
	b := &OrbitalBody{
		name:          name,
		material:      material,
		scale:         scale,
		rotationSpeed: rotationSpeed,
		orbit:         orbit,
		orbitAngle:    WrapAngle(orbit.InitialAngle),
	}
	b.local = orbit.PositionAt(b.orbitAngle)
	b.place(Origin)
	return b
}

// WithSatellite attaches s as a satellite and returns b for chaining.
func (b *OrbitalBody) WithSatellite(s *OrbitalBody) *OrbitalBody {
	if s == nil || s == b {
		return b
	}
	b.satellites = append(b.satellites, s)
	s.place(b.position)
	return b
}

// WithMotion replaces the circular orbit with m.
func (b *OrbitalBody) WithMotion(m MotionModel) *OrbitalBody {
	b.motion = m
	if m != nil {
		b.local = m.Offset()
		b.place(Origin)
	}
	return b
}

// WithRing marks the body as carrying a planetary ring.
func (b *OrbitalBody) WithRing() *OrbitalBody {
	b.ring = true
	return b
}

// HasRing reports whether the body carries a ring.
func (b *OrbitalBody) HasRing() bool { return b.ring }

// Advance ticks a top-level body, i.e. one orbiting the world origin.
func (b *OrbitalBody) Advance(dt float64) {
	b.tick(dt, Origin)
}

// tick advances phase and spin, then recurses depth-first so every
// satellite orbits its parent's fresh position.
func (b *OrbitalBody) tick(dt float64, parent mgl64.Vec3) {
	if b.motion != nil {
		b.motion.Advance(dt)
		b.local = b.motion.Offset()
	} else {
		b.orbitAngle = WrapAngle(b.orbitAngle + b.orbit.Speed*dt)
		b.local = b.orbit.PositionAt(b.orbitAngle)
	}
	b.position = b.local.Add(parent)
	b.spin(b.rotationSpeed * dt)

	for _, s := range b.satellites {
		s.tick(dt, b.position)
	}
}

// spin adds delta radians to the Y rotation.
func (b *OrbitalBody) spin(delta float64) {
	b.rotation[1] = WrapAngle(b.rotation[1] + delta)
}

func (b *OrbitalBody) place(parent mgl64.Vec3) {
	b.position = b.local.Add(parent)
	for _, s := range b.satellites {
		s.place(b.position)
	}
}

func (b *OrbitalBody) Position() mgl64.Vec3 { return b.position }
func (b *OrbitalBody) Rotation() mgl64.Vec3 { return b.rotation }
func (b *OrbitalBody) Scale() float64       { return b.scale }
func (b *OrbitalBody) MaterialTag() string  { return b.material }
func (b *OrbitalBody) Name() string         { return b.name }

// LocalOffset is the body's position relative to its parent.
func (b *OrbitalBody) LocalOffset() mgl64.Vec3 { return b.local }

// Orbit returns the body's orbit parameters.
func (b *OrbitalBody) Orbit() OrbitParams { return b.orbit }

// OrbitAngle returns the current phase in [0, 2π).
func (b *OrbitalBody) OrbitAngle() float64 { return b.orbitAngle }

// RotationSpeed returns the self-spin rate in rad/s.
func (b *OrbitalBody) RotationSpeed() float64 { return b.rotationSpeed }

// Satellites returns the body's satellites in attachment order. The slice
// is shared; callers must not modify it.
func (b *OrbitalBody) Satellites() []*OrbitalBody { return b.satellites }
