package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/orrery/model"
)

// OrbitParams describes a circular orbit tilted about the X axis.
// The zero value is a fixed body at the origin.
type OrbitParams struct {
	Radius       float64 // measured in the untilted plane
	Speed        float64 // rad/s, zero for a fixed body
	Inclination  float64 // rad
	InitialAngle float64 // rad, phase at creation
}

// NewOrbitParams returns a flat orbit starting at phase zero.
func NewOrbitParams(radius, speed float64) OrbitParams {
	return OrbitParams{Radius: radius, Speed: speed}
}

// WithInclination returns a copy tilted by inclination radians.
func (o OrbitParams) WithInclination(inclination float64) OrbitParams {
	o.Inclination = inclination
	return o
}

// WithInitialAngle returns a copy starting at the given phase.
func (o OrbitParams) WithInitialAngle(angle float64) OrbitParams {
	o.InitialAngle = angle
	return o
}

// OrbitParamsFromSpec converts a catalog orbit.
func OrbitParamsFromSpec(s model.OrbitSpec) OrbitParams {
	return OrbitParams{
		Radius:       s.Radius,
		Speed:        s.Speed,
		Inclination:  s.Inclination,
		InitialAngle: s.InitialAngle,
	}
}

// PositionAt returns the orbital offset at phase angle.
func (o OrbitParams) PositionAt(angle float64) mgl64.Vec3 {
	x := math.Cos(angle) * o.Radius
	z := math.Sin(angle) * o.Radius
	return mgl64.Vec3{
		x,
		z * math.Sin(o.Inclination),
		z * math.Cos(o.Inclination),
	}
}
