package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/orrery/model"
)

// MotionModel produces a body's parent-relative offset for bodies that do
// not follow a kinematic circular orbit.
type MotionModel interface {
	Advance(dt float64)
	Offset() mgl64.Vec3
}

// TLEMotionModel uses a TLE and SGP4 to place a satellite around its parent.
type TLEMotionModel struct {
	sat       satellite.Satellite
	epoch     time.Time
	elapsed   float64 // simulated seconds since epoch
	scale     float64 // scene units per kilometre
	timeScale float64 // simulated seconds per tick second
	offset    mgl64.Vec3
}

// DefaultTLETimeScale speeds up propagation so a low orbit is visible:
// one tick second covers one simulated minute.
const DefaultTLETimeScale = 60.0

// TLELineLength is the fixed width of a two-line element record.
const TLELineLength = 69

var errMalformedTLE = errors.New("malformed tle")

// ValidateTLE checks the fixed-column fields SGP4 initialisation reads.
// go-satellite slices those columns unchecked and exits the process on a
// parse failure, so a TLE must pass here before NewTLEMotionModel sees it.
func ValidateTLE(spec model.TLESpec) error {
	l1, l2 := spec.Line1, spec.Line2
	if len(l1) < TLELineLength || len(l2) < TLELineLength {
		return fmt.Errorf("%w: lines must be %d columns, got %d and %d", errMalformedTLE, TLELineLength, len(l1), len(l2))
	}
	if !strings.HasPrefix(l1, "1 ") || !strings.HasPrefix(l2, "2 ") {
		return fmt.Errorf("%w: lines must start with \"1 \" and \"2 \"", errMalformedTLE)
	}

	squeeze := func(s string) string { return strings.Replace(s, " ", "", 2) }
	ints := []struct{ field, v string }{
		{"satnum", strings.TrimSpace(l1[2:7])},
		{"epochyr", l1[18:20]},
	}
	floats := []struct{ field, v string }{
		{"epochdays", l1[20:32]},
		{"ndot", squeeze(l1[33:43])},
		{"nddot", squeeze(l1[44:45] + "." + l1[45:50] + "e" + l1[50:52])},
		{"bstar", squeeze(l1[53:54] + "." + l1[54:59] + "e" + l1[59:61])},
		{"inclo", squeeze(l2[8:16])},
		{"nodeo", squeeze(l2[17:25])},
		{"ecco", "." + l2[26:33]},
		{"argpo", squeeze(l2[34:42])},
		{"mo", squeeze(l2[43:51])},
		{"no", squeeze(l2[52:63])},
	}
	for _, f := range ints {
		if _, err := strconv.ParseInt(f.v, 10, 64); err != nil {
			return fmt.Errorf("%w: %s %q", errMalformedTLE, f.field, f.v)
		}
	}
	for _, f := range floats {
		if _, err := strconv.ParseFloat(f.v, 64); err != nil {
			return fmt.Errorf("%w: %s %q", errMalformedTLE, f.field, f.v)
		}
	}
	return nil
}

// NewTLEMotionModel constructs an SGP4-backed motion model. A zero
// spec.Scale falls back to 1/4000 scene units per kilometre.
func NewTLEMotionModel(spec model.TLESpec, epoch time.Time, timeScale float64) *TLEMotionModel {
	scale := spec.Scale
	if scale <= 0 {
		scale = 1.0 / 4000.0
	}
	if timeScale <= 0 {
		timeScale = DefaultTLETimeScale
	}
	m := &TLEMotionModel{
		sat:       satellite.TLEToSat(spec.Line1, spec.Line2, satellite.GravityWGS72),
		epoch:     epoch.UTC(),
		scale:     scale,
		timeScale: timeScale,
	}
	m.offset = m.propagate()
	return m
}

// Advance moves simulated time forward by dt tick seconds.
func (m *TLEMotionModel) Advance(dt float64) {
	m.elapsed += dt * m.timeScale
	m.offset = m.propagate()
}

// Offset returns the last propagated offset in scene units.
func (m *TLEMotionModel) Offset() mgl64.Vec3 {
	return m.offset
}

// propagate runs SGP4 at the current simulated time. go-satellite works in
// kilometres in an equatorial frame with Z toward the pole; the scene uses
// +Y as up, so Y and Z swap.
func (m *TLEMotionModel) propagate() mgl64.Vec3 {
	t := m.epoch.Add(time.Duration(m.elapsed * float64(time.Second)))
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	return mgl64.Vec3{pos.X, pos.Z, pos.Y}.Mul(m.scale)
}
