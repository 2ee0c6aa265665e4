package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSafeZoneRelocatesOnFourthHazardousFrame(t *testing.T) {
	planets := []Sphere{{Center: mgl64.Vec3{10, 0, 0}, Radius: 1}}
	m := NewSafeZoneMonitor(mgl64.Vec3{0, 20, 30})

	hazard := mgl64.Vec3{11, 0, 0} // within 2× radius
	for i := 1; i <= 3; i++ {
		if _, ok := m.CheckAndCorrect(hazard, planets, nil); ok {
			t.Fatalf("frame %d: unexpected relocation", i)
		}
		if m.DangerCounter() != i {
			t.Fatalf("frame %d: counter = %d", i, m.DangerCounter())
		}
	}

	pos, ok := m.CheckAndCorrect(hazard, planets, nil)
	if !ok {
		t.Fatalf("frame 4: expected relocation")
	}
	want := mgl64.Vec3{11, 5, 0}
	if pos != want {
		t.Fatalf("relocation = %v, want %v", pos, want)
	}
	if m.DangerCounter() != 0 {
		t.Fatalf("counter after relocation = %d, want 0", m.DangerCounter())
	}
	if m.LastSafePosition() != want {
		t.Fatalf("last safe = %v, want %v", m.LastSafePosition(), want)
	}
}

func TestSafeZoneFallsBackToLastSafe(t *testing.T) {
	// A planet large enough that 5 units up is still within 3× its radius.
	planets := []Sphere{{Center: mgl64.Vec3{0, 0, 0}, Radius: 4}}
	m := NewSafeZoneMonitor(mgl64.Vec3{0, 40, 40})

	safe := mgl64.Vec3{0, 30, 0}
	if _, ok := m.CheckAndCorrect(safe, planets, nil); ok {
		t.Fatalf("safe frame relocated")
	}

	hazard := mgl64.Vec3{0, 1, 6}
	var (
		pos mgl64.Vec3
		ok  bool
	)
	for i := 0; i < 4; i++ {
		pos, ok = m.CheckAndCorrect(hazard, planets, nil)
	}
	if !ok || pos != safe {
		t.Fatalf("relocation = %v, %v; want %v, true", pos, ok, safe)
	}
}

func TestSafeZoneStreakResetsOnSafeFrame(t *testing.T) {
	planets := []Sphere{{Center: mgl64.Vec3{10, 0, 0}, Radius: 1}}
	m := NewSafeZoneMonitor(mgl64.Vec3{})

	hazard := mgl64.Vec3{10.5, 0, 0}
	safe := mgl64.Vec3{0, 20, 0}
	for i := 0; i < 3; i++ {
		m.CheckAndCorrect(hazard, planets, nil)
	}
	m.CheckAndCorrect(safe, planets, nil)
	if m.DangerCounter() != 0 || m.LastSafePosition() != safe {
		t.Fatalf("safe frame should reset streak, counter=%d last=%v", m.DangerCounter(), m.LastSafePosition())
	}
	for i := 0; i < 3; i++ {
		if _, ok := m.CheckAndCorrect(hazard, planets, nil); ok {
			t.Fatalf("relocated after only %d hazardous frames", i+1)
		}
	}
}

func TestIsInDangerZoneOrbitRing(t *testing.T) {
	radii := []float64{7.5, 14}
	cases := []struct {
		pos  mgl64.Vec3
		want bool
	}{
		{mgl64.Vec3{7.7, 0.5, 0}, true},   // on the ring
		{mgl64.Vec3{0, -0.9, 13.6}, true}, // below the plane but within height
		{mgl64.Vec3{7.5, 1.0, 0}, false},  // too high
		{mgl64.Vec3{8.1, 0, 0}, false},    // too far from radius
		{mgl64.Vec3{0, 0, 0}, false},
	}
	for _, tc := range cases {
		if got := IsInDangerZone(tc.pos, nil, radii); got != tc.want {
			t.Fatalf("IsInDangerZone(%v) = %v, want %v", tc.pos, got, tc.want)
		}
	}
}
