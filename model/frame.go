package model

import "github.com/go-gl/mathgl/mgl64"

// BodyKind tags an exported render item.
type BodyKind int

const (
	BodyKindStar BodyKind = iota
	BodyKindPlanet
	BodyKindSatellite
	BodyKindShip
	BodyKindRing
)

func (k BodyKind) String() string {
	switch k {
	case BodyKindStar:
		return "star"
	case BodyKindPlanet:
		return "planet"
	case BodyKindSatellite:
		return "satellite"
	case BodyKindShip:
		return "ship"
	case BodyKindRing:
		return "ring"
	default:
		return "unknown"
	}
}

// BodyState is the per-entity export read by the rendering collaborator.
// Material is opaque to the simulation.
type BodyState struct {
	Name     string
	Kind     BodyKind
	Parent   string // set for satellites and rings
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler angles, radians
	Scale    float64
	Material string
}

// OrbitRing describes one planet orbit so a renderer can draw it.
type OrbitRing struct {
	Body        string
	Radius      float64
	Inclination float64
}

// CameraState is the settled camera for a frame.
type CameraState struct {
	Eye        mgl64.Vec3
	Center     mgl64.Vec3
	Up         mgl64.Vec3
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Aspect     float64
}

// Frame is a fully settled post-tick snapshot.
type Frame struct {
	Tick       uint64
	Time       float64 // simulation seconds since start
	Bodies     []BodyState
	Orbits     []OrbitRing
	Camera     CameraState
	Distortion float64
	Mode       string
}
