package core

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/orrery/model"
)

// DefaultStarSpin is the star's self-rotation rate in rad/s.
const DefaultStarSpin = 0.1

// SolarSystem owns one fixed star and an ordered list of planets.
type SolarSystem struct {
	star     *OrbitalBody
	starSpin float64
	planets  []*OrbitalBody
}

// NewSolarSystem wires a star and its planets. The star's orbit is ignored;
// it only spins at starSpin rad/s.
func NewSolarSystem(star *OrbitalBody, starSpin float64, planets ...*OrbitalBody) *SolarSystem {
	return &SolarSystem{
		star:     star,
		starSpin: starSpin,
		planets:  planets,
	}
}

// Update spins the star and ticks every planet (and its satellites).
func (s *SolarSystem) Update(dt float64) {
	if s.star != nil {
		s.star.spin(s.starSpin * dt)
	}
	for _, p := range s.planets {
		p.Advance(dt)
	}
}

// Star returns the root body.
func (s *SolarSystem) Star() *OrbitalBody { return s.star }

// Planets returns the planets in catalog order. The slice is shared.
func (s *SolarSystem) Planets() []*OrbitalBody { return s.planets }

// PlanetCount returns the number of planets.
func (s *SolarSystem) PlanetCount() int { return len(s.planets) }

// Planet returns the planet at index i, or false when out of range.
func (s *SolarSystem) Planet(i int) (*OrbitalBody, bool) {
	if i < 0 || i >= len(s.planets) {
		return nil, false
	}
	return s.planets[i], true
}

// FindPlanetByName returns the first planet whose name matches exactly.
func (s *SolarSystem) FindPlanetByName(name string) (int, *OrbitalBody, bool) {
	for i, p := range s.planets {
		if p.name == name {
			return i, p, true
		}
	}
	return -1, nil, false
}

// PlanetPositions returns the current world position of every planet.
func (s *SolarSystem) PlanetPositions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(s.planets))
	for _, p := range s.planets {
		out = append(out, p.position)
	}
	return out
}

// Orbits returns radius and inclination for every planet orbit.
func (s *SolarSystem) Orbits() []model.OrbitRing {
	out := make([]model.OrbitRing, 0, len(s.planets))
	for _, p := range s.planets {
		out = append(out, model.OrbitRing{
			Body:        p.name,
			Radius:      p.orbit.Radius,
			Inclination: p.orbit.Inclination,
		})
	}
	return out
}

// OrbitRadii returns just the planet orbit radii.
func (s *SolarSystem) OrbitRadii() []float64 {
	out := make([]float64, 0, len(s.planets))
	for _, p := range s.planets {
		out = append(out, p.orbit.Radius)
	}
	return out
}

// Walk visits the star, then each planet followed depth-first by its
// satellites. parent is nil for the star and planets.
func (s *SolarSystem) Walk(fn func(b, parent *OrbitalBody)) {
	if s.star != nil {
		fn(s.star, nil)
	}
	for _, p := range s.planets {
		walkBody(p, nil, fn)
	}
}

func walkBody(b, parent *OrbitalBody, fn func(b, parent *OrbitalBody)) {
	fn(b, parent)
	for _, sat := range b.satellites {
		walkBody(sat, b, fn)
	}
}
