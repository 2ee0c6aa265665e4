package model

// OrbitSource indicates how a body's orbital offset is determined.
type OrbitSource int

const (
	OrbitSourceCircular OrbitSource = iota // kinematic circular orbit
	OrbitSourceTLE                         // SGP4 propagation from a two-line element set
)

// OrbitSpec describes a circular, possibly inclined, orbit. Angles are radians.
type OrbitSpec struct {
	Radius       float64 `yaml:"radius"`
	Speed        float64 `yaml:"speed"`
	Inclination  float64 `yaml:"inclination"`
	InitialAngle float64 `yaml:"initial_angle"`
}

// TLESpec drives a satellite from a two-line element set. Propagated
// kilometres are multiplied by Scale to land in scene units.
type TLESpec struct {
	Line1 string  `yaml:"line1"`
	Line2 string  `yaml:"line2"`
	Scale float64 `yaml:"scale"`
}

// BodySpec is the catalog definition of a body and its satellites.
type BodySpec struct {
	Name          string     `yaml:"name"`
	Material      string     `yaml:"material"`
	Scale         float64    `yaml:"scale"`
	RotationSpeed float64    `yaml:"rotation_speed"`
	Orbit         OrbitSpec  `yaml:"orbit"`
	TLE           *TLESpec   `yaml:"tle,omitempty"`
	Ring          bool       `yaml:"ring,omitempty"`
	Satellites    []BodySpec `yaml:"satellites,omitempty"`
}

// Source reports which orbit variant drives the body.
func (b BodySpec) Source() OrbitSource {
	if b.TLE != nil && b.TLE.Line1 != "" && b.TLE.Line2 != "" {
		return OrbitSourceTLE
	}
	return OrbitSourceCircular
}

// Catalog is the full startup description of a solar system.
type Catalog struct {
	Star BodySpec `yaml:"star"`
	// StarSpin is the fixed self-rotation rate applied to the star (rad/s).
	StarSpin float64    `yaml:"star_spin"`
	Planets  []BodySpec `yaml:"planets"`
}
