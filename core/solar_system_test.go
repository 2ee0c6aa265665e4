package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newDefaultSystem(t *testing.T) *SolarSystem {
	t.Helper()
	sys, err := NewSolarSystemFromCatalog(DefaultCatalog())
	if err != nil {
		t.Fatalf("NewSolarSystemFromCatalog: %v", err)
	}
	return sys
}

func TestDefaultCatalogShape(t *testing.T) {
	sys := newDefaultSystem(t)

	if got := sys.PlanetCount(); got != 8 {
		t.Fatalf("PlanetCount = %d, want 8", got)
	}
	if sys.Star().Name() != "Sol" || sys.Star().MaterialTag() != "sun" {
		t.Fatalf("unexpected star %q/%q", sys.Star().Name(), sys.Star().MaterialTag())
	}

	withSatellites := 0
	for _, p := range sys.Planets() {
		if len(p.Satellites()) > 0 {
			withSatellites++
		}
	}
	if withSatellites != 1 {
		t.Fatalf("planets with satellites = %d, want 1", withSatellites)
	}

	_, earth, ok := sys.FindPlanetByName("Tierra")
	if !ok {
		t.Fatalf("Tierra not found")
	}
	if sats := earth.Satellites(); len(sats) != 1 || sats[0].Name() != "Luna" {
		t.Fatalf("Tierra satellites = %v, want [Luna]", sats)
	}

	for _, p := range sys.Planets() {
		if want := p.Name() == "Saturno"; p.HasRing() != want {
			t.Fatalf("%s HasRing = %v, want %v", p.Name(), p.HasRing(), want)
		}
	}
}

func TestUpdateSpinsStarInPlace(t *testing.T) {
	sys := newDefaultSystem(t)
	for i := 0; i < 60; i++ {
		sys.Update(1.0 / 60)
	}
	if sys.Star().Position() != (mgl64.Vec3{}) {
		t.Fatalf("star moved to %v", sys.Star().Position())
	}
	if got := sys.Star().Rotation().Y(); math.Abs(got-DefaultStarSpin) > 1e-9 {
		t.Fatalf("star rotation.y = %v, want %v", got, DefaultStarSpin)
	}
}

func TestUpdateMovesPlanets(t *testing.T) {
	sys := newDefaultSystem(t)
	before := sys.PlanetPositions()
	sys.Update(0.5)
	after := sys.PlanetPositions()
	if len(before) != len(after) {
		t.Fatalf("position count changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] == after[i] {
			t.Fatalf("planet %d did not move", i)
		}
	}
}

func TestPlanetLookupOutOfRange(t *testing.T) {
	sys := newDefaultSystem(t)
	for _, i := range []int{-1, 8, 100} {
		if p, ok := sys.Planet(i); ok || p != nil {
			t.Fatalf("Planet(%d) = %v, %v; want nil, false", i, p, ok)
		}
	}
	if p, ok := sys.Planet(0); !ok || p.Name() != "Mercurio" {
		t.Fatalf("Planet(0) = %v, %v; want Mercurio", p, ok)
	}
}

func TestFindPlanetByNameIsCaseSensitive(t *testing.T) {
	sys := newDefaultSystem(t)
	if i, _, ok := sys.FindPlanetByName("Marte"); !ok || i != 3 {
		t.Fatalf("FindPlanetByName(Marte) = %d, %v; want 3, true", i, ok)
	}
	if _, _, ok := sys.FindPlanetByName("marte"); ok {
		t.Fatalf("lookup should be case-sensitive")
	}
	if _, _, ok := sys.FindPlanetByName("Luna"); ok {
		t.Fatalf("satellites are not planets")
	}
}

func TestOrbitsListsEveryPlanet(t *testing.T) {
	sys := newDefaultSystem(t)
	orbits := sys.Orbits()
	if len(orbits) != 8 {
		t.Fatalf("len(Orbits) = %d, want 8", len(orbits))
	}
	last := orbits[7]
	if last.Body != "Neptuno" || last.Radius != 26 || last.Inclination != 0.05 {
		t.Fatalf("Neptuno orbit = %+v", last)
	}
	radii := sys.OrbitRadii()
	for i := range orbits {
		if radii[i] != orbits[i].Radius {
			t.Fatalf("OrbitRadii[%d] = %v, want %v", i, radii[i], orbits[i].Radius)
		}
	}
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	sys := newDefaultSystem(t)
	var names []string
	parents := map[string]string{}
	sys.Walk(func(b, parent *OrbitalBody) {
		names = append(names, b.Name())
		if parent != nil {
			parents[b.Name()] = parent.Name()
		}
	})
	if len(names) != 10 {
		t.Fatalf("visited %d bodies, want 10: %v", len(names), names)
	}
	if names[0] != "Sol" || names[3] != "Tierra" || names[4] != "Luna" {
		t.Fatalf("unexpected walk order %v", names)
	}
	if parents["Luna"] != "Tierra" {
		t.Fatalf("Luna parent = %q, want Tierra", parents["Luna"])
	}
}
