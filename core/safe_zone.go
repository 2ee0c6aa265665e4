package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DangerFrameLimit is how many consecutive hazardous frames are tolerated;
	// the next one triggers a relocation.
	DangerFrameLimit = 3

	dangerRadiusFactor = 2.0 // hazard if closer than this × planet radius
	clearRadiusFactor  = 3.0 // relocation must clear this × planet radius
	ringHalfHeight     = 1.0 // |y| below this counts as on the ecliptic
	ringHalfWidth      = 0.5 // radial tolerance around an orbit radius
	escapeHeight       = 5.0
)

// SafeZoneMonitor watches for the viewpoint lingering inside a planet's
// hazard sphere or on an orbital ring, and proposes a relocation.
type SafeZoneMonitor struct {
	lastSafe      mgl64.Vec3
	dangerCounter int
}

// NewSafeZoneMonitor starts with a known-safe position.
func NewSafeZoneMonitor(initial mgl64.Vec3) *SafeZoneMonitor {
	return &SafeZoneMonitor{lastSafe: initial}
}

// LastSafePosition returns the most recent position considered safe.
func (m *SafeZoneMonitor) LastSafePosition() mgl64.Vec3 { return m.lastSafe }

// DangerCounter returns the number of consecutive hazardous frames seen.
func (m *SafeZoneMonitor) DangerCounter() int { return m.dangerCounter }

// Reset forgets any hazard streak and adopts pos as safe.
func (m *SafeZoneMonitor) Reset(pos mgl64.Vec3) {
	m.lastSafe = pos
	m.dangerCounter = 0
}

// CheckAndCorrect feeds one frame. It returns a relocation and true on the
// frame that exceeds DangerFrameLimit consecutive hazardous frames.
func (m *SafeZoneMonitor) CheckAndCorrect(pos mgl64.Vec3, planets []Sphere, orbitRadii []float64) (mgl64.Vec3, bool) {
	if !IsInDangerZone(pos, planets, orbitRadii) {
		m.dangerCounter = 0
		m.lastSafe = pos
		return mgl64.Vec3{}, false
	}

	m.dangerCounter++
	if m.dangerCounter <= DangerFrameLimit {
		return mgl64.Vec3{}, false
	}

	safe := m.safePosition(pos, planets)
	m.lastSafe = safe
	m.dangerCounter = 0
	return safe, true
}

// IsInDangerZone reports whether pos is within twice the radius of any
// planet, or grazing an orbital ring near the ecliptic.
func IsInDangerZone(pos mgl64.Vec3, planets []Sphere, orbitRadii []float64) bool {
	for _, p := range planets {
		if Distance(pos, p.Center) < p.Radius*dangerRadiusFactor {
			return true
		}
	}

	if math.Abs(pos.Y()) >= ringHalfHeight {
		return false
	}
	radial := RadialDistanceXZ(pos)
	for _, r := range orbitRadii {
		if math.Abs(radial-r) < ringHalfWidth {
			return true
		}
	}
	return false
}

// safePosition tries straight up first, falling back to the last safe spot.
func (m *SafeZoneMonitor) safePosition(pos mgl64.Vec3, planets []Sphere) mgl64.Vec3 {
	elevated := pos.Add(mgl64.Vec3{0, escapeHeight, 0})
	for _, p := range planets {
		if Distance(elevated, p.Center) < p.Radius*clearRadiusFactor {
			return m.lastSafe
		}
	}
	return elevated
}
