package core

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/orrery/model"
)

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// DefaultCatalog returns the built-in system: a star and eight planets,
// Tierra carrying Luna and Saturno its ring.
func DefaultCatalog() model.Catalog {
	planet := func(name, material string, scale, radius, speed, phase, incl, spin float64) model.BodySpec {
		return model.BodySpec{
			Name:          name,
			Material:      material,
			Scale:         scale,
			RotationSpeed: spin,
			Orbit: model.OrbitSpec{
				Radius:       radius,
				Speed:        speed,
				Inclination:  incl,
				InitialAngle: phase,
			},
		}
	}

	earth := planet("Tierra", "rocky_earth", 1.0, 7.5, 0.5, math.Pi*0.7, 0, 1.0)
	earth.Satellites = []model.BodySpec{
		planet("Luna", "moon", 0.27, 1.5, 3.0, 0, 0, 0.5),
	}

	saturn := planet("Saturno", "gas_saturn", 1.5, 18.0, 0.10, math.Pi*1.8, 0, 2.3)
	saturn.Ring = true

	return model.Catalog{
		Star:     model.BodySpec{Name: "Sol", Material: "sun", Scale: 2.0},
		StarSpin: DefaultStarSpin,
		Planets: []model.BodySpec{
			planet("Mercurio", "rocky_mars", 0.38, 3.0, 1.0, 0, 0, 2.0),
			planet("Venus", "rocky_earth", 0.95, 5.0, 0.7, math.Pi*0.3, 0, 1.5),
			earth,
			planet("Marte", "rocky_mars", 0.53, 10.0, 0.35, math.Pi*1.1, 0, 0.95),
			planet("Júpiter", "gas_jupiter", 1.8, 14.0, 0.15, math.Pi*1.5, 0, 2.5),
			saturn,
			planet("Urano", "ice_neptune", 1.0, 22.0, 0.08, math.Pi*0.2, 0.1, 1.8),
			planet("Neptuno", "ice_neptune", 0.95, 26.0, 0.05, math.Pi*0.9, 0.05, 1.7),
		},
	}
}

// BuildOption tunes how a catalog is turned into bodies.
type BuildOption func(*buildConfig)

type buildConfig struct {
	epoch        time.Time
	tleTimeScale float64
}

// WithTLEEpoch sets the wall time TLE-driven satellites start from.
func WithTLEEpoch(t time.Time) BuildOption {
	return func(c *buildConfig) { c.epoch = t }
}

// WithTLETimeScale sets simulated seconds per tick second for TLE bodies.
func WithTLETimeScale(scale float64) BuildOption {
	return func(c *buildConfig) { c.tleTimeScale = scale }
}

// NewSolarSystemFromCatalog validates cat and builds the body tree.
func NewSolarSystemFromCatalog(cat model.Catalog, opts ...BuildOption) (*SolarSystem, error) {
	cfg := buildConfig{
		epoch:        time.Now().UTC(),
		tleTimeScale: DefaultTLETimeScale,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := ValidateCatalog(cat); err != nil {
		return nil, err
	}

	// The star never orbits, whatever the catalog says.
	star := NewOrbitalBody(cat.Star.Name, cat.Star.Material, cat.Star.Scale, OrbitParams{}, 0)

	planets := make([]*OrbitalBody, 0, len(cat.Planets))
	for _, spec := range cat.Planets {
		planets = append(planets, buildBody(spec, cfg))
	}
	return NewSolarSystem(star, cat.StarSpin, planets...), nil
}

func buildBody(spec model.BodySpec, cfg buildConfig) *OrbitalBody {
	b := NewOrbitalBody(spec.Name, spec.Material, spec.Scale, OrbitParamsFromSpec(spec.Orbit), spec.RotationSpeed)
	if spec.Source() == model.OrbitSourceTLE {
		b.WithMotion(NewTLEMotionModel(*spec.TLE, cfg.epoch, cfg.tleTimeScale))
	}
	if spec.Ring {
		b.WithRing()
	}
	for _, sat := range spec.Satellites {
		b.WithSatellite(buildBody(sat, cfg))
	}
	return b
}

// ValidateCatalog checks the structural invariants a body tree relies on.
func ValidateCatalog(cat model.Catalog) error {
	if err := validateBody(cat.Star, "star"); err != nil {
		return err
	}
	if len(cat.Planets) == 0 {
		return fmt.Errorf("%w: no planets", ErrInvalidCatalog)
	}
	for i, p := range cat.Planets {
		if err := validateBody(p, fmt.Sprintf("planets[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateBody(b model.BodySpec, path string) error {
	if b.Name == "" {
		return fmt.Errorf("%w: %s has no name", ErrInvalidCatalog, path)
	}
	if !(b.Scale > 0) {
		return fmt.Errorf("%w: %s (%s) scale must be > 0, got %v", ErrInvalidCatalog, path, b.Name, b.Scale)
	}
	if b.Orbit.Radius < 0 {
		return fmt.Errorf("%w: %s (%s) orbit radius must be >= 0, got %v", ErrInvalidCatalog, path, b.Name, b.Orbit.Radius)
	}
	if b.TLE != nil && b.Source() != model.OrbitSourceTLE {
		return fmt.Errorf("%w: %s (%s) tle needs both lines", ErrInvalidCatalog, path, b.Name)
	}
	if b.TLE != nil {
		if err := ValidateTLE(*b.TLE); err != nil {
			return fmt.Errorf("%w: %s (%s): %v", ErrInvalidCatalog, path, b.Name, err)
		}
	}
	for i, s := range b.Satellites {
		if err := validateBody(s, fmt.Sprintf("%s.satellites[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
