package core

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/orrery/model"
)

// Exact orbital values belong to go-satellite; we only check that the
// offset moves and stays at a plausible low-orbit radius.
func TestTLEMotionModelChangesOverTime(t *testing.T) {
	spec := model.TLESpec{Line1: issLine1, Line2: issLine2, Scale: 1}
	epoch := time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)
	m := NewTLEMotionModel(spec, epoch, 1)

	first := m.Offset()
	m.Advance(300)
	second := m.Offset()

	if first == second {
		t.Fatalf("expected offset to change, got %v twice", first)
	}
	for _, p := range []float64{first.Len(), second.Len()} {
		if p < 6500 || p > 7000 || math.IsNaN(p) {
			t.Fatalf("offset radius %v km outside low-orbit range", p)
		}
	}
}

func TestTLEMotionModelDefaults(t *testing.T) {
	spec := model.TLESpec{Line1: issLine1, Line2: issLine2}
	m := NewTLEMotionModel(spec, time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC), 0)
	if m.scale != 1.0/4000.0 || m.timeScale != DefaultTLETimeScale {
		t.Fatalf("defaults not applied: scale=%v timeScale=%v", m.scale, m.timeScale)
	}
	if r := m.Offset().Len(); r < 1.5 || r > 1.8 {
		t.Fatalf("scaled radius %v, want roughly 6780/4000", r)
	}
}

func TestTLEBodyPlacedAtConstruction(t *testing.T) {
	spec := model.TLESpec{Line1: issLine1, Line2: issLine2, Scale: 1}
	m := NewTLEMotionModel(spec, time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC), 1)
	b := NewOrbitalBody("ISS", "spaceship", 0.02, NewOrbitParams(7.5, 1), 0).WithMotion(m)

	if b.Position() != m.Offset() {
		t.Fatalf("Position = %v before any tick, want TLE offset %v", b.Position(), m.Offset())
	}
}

func TestValidateTLE(t *testing.T) {
	if err := ValidateTLE(model.TLESpec{Line1: issLine1, Line2: issLine2}); err != nil {
		t.Fatalf("ISS TLE rejected: %v", err)
	}

	garbled := []byte(issLine2)
	copy(garbled[8:16], "fiftyone")
	cases := map[string]model.TLESpec{
		"short":         {Line1: "1 25544U", Line2: "2 25544"},
		"swapped lines": {Line1: issLine2, Line2: issLine1},
		"bad epoch":     {Line1: issLine1[:20] + "xx" + issLine1[22:], Line2: issLine2},
		"bad field":     {Line1: issLine1, Line2: string(garbled)},
	}
	for name, spec := range cases {
		if err := ValidateTLE(spec); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
