package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WarpState is the phase of an animated warp.
type WarpState int

const (
	WarpIdle WarpState = iota
	WarpWarping
	WarpArriving
)

func (s WarpState) String() string {
	switch s {
	case WarpIdle:
		return "idle"
	case WarpWarping:
		return "warping"
	case WarpArriving:
		return "arriving"
	default:
		return "unknown"
	}
}

const (
	// DefaultWarpDuration is the travel time of a warp in seconds.
	DefaultWarpDuration = 1.0
	// ArrivalHold is how long the eye is pinned to the target after travel.
	ArrivalHold = 0.3
)

// WarpSequencer animates the eye from a start to a target position:
// Idle -> Warping (eased travel) -> Arriving (hold) -> Idle.
// Timers advance only with the dt passed to Update.
type WarpSequencer struct {
	state       WarpState
	progress    float64
	duration    float64
	currentTime float64
	start       mgl64.Vec3
	target      mgl64.Vec3
}

// NewWarpSequencer returns an idle sequencer. A non-positive duration
// makes travel complete on the first update.
func NewWarpSequencer(duration float64) *WarpSequencer {
	return &WarpSequencer{duration: duration}
}

// StartWarp (re)starts travel from -> to, whatever the current state.
func (w *WarpSequencer) StartWarp(from, to mgl64.Vec3) {
	w.state = WarpWarping
	w.progress = 0
	w.currentTime = 0
	w.start = from
	w.target = to
}

// Update advances the timers and returns the eye position for this frame,
// or false when idle.
func (w *WarpSequencer) Update(dt float64) (mgl64.Vec3, bool) {
	switch w.state {
	case WarpWarping:
		w.currentTime += dt
		w.progress = ratio(w.currentTime, w.duration)
		pos := lerp(w.start, w.target, easeInOutCubic(w.progress))
		if w.progress >= 1 {
			w.state = WarpArriving
			w.progress = 0
			w.currentTime = 0
		}
		return pos, true

	case WarpArriving:
		w.currentTime += dt
		w.progress = ratio(w.currentTime, ArrivalHold)
		if w.progress >= 1 {
			w.state = WarpIdle
		}
		return w.target, true

	default:
		return mgl64.Vec3{}, false
	}
}

// DistortionFactor is a 0..1 visual intensity: a triangle peaking mid
// travel, then a linear fade while arriving.
func (w *WarpSequencer) DistortionFactor() float64 {
	switch w.state {
	case WarpWarping:
		return 1 - 2*math.Abs(w.progress-0.5)
	case WarpArriving:
		return 1 - w.progress
	default:
		return 0
	}
}

// IsActive reports whether the sequencer is driving the eye.
func (w *WarpSequencer) IsActive() bool { return w.state != WarpIdle }

func (w *WarpSequencer) State() WarpState   { return w.state }
func (w *WarpSequencer) Progress() float64  { return w.progress }
func (w *WarpSequencer) Duration() float64  { return w.duration }
func (w *WarpSequencer) Target() mgl64.Vec3 { return w.target }

func ratio(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return math.Min(elapsed/total, 1)
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
