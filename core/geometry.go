package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// Origin is the world origin, where the star sits.
var Origin = mgl64.Vec3{}

// WorldUp is the reference up axis (+Y).
var WorldUp = mgl64.Vec3{0, 1, 0}

// WrapAngle maps a into [0, 2π). Modulo keeps it exact for any step size.
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can return a value that rounds up to exactly 2π after the
	// correction above for tiny negative inputs.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Distance returns the straight-line distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// NormalizeOr returns v scaled to unit length, or fallback when v has
// no usable direction.
func NormalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// RadialDistanceXZ is the distance from the Y axis, i.e. the radius in the
// ecliptic plane.
func RadialDistanceXZ(p mgl64.Vec3) float64 {
	return math.Hypot(p.X(), p.Z())
}
