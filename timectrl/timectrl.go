package timectrl

import (
	"context"
	"sync"
	"time"
)

// SimClock is read access to simulation time, so consumers can depend on
// a clock abstraction rather than the controller.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
	// Elapsed returns simulation time since the start.
	Elapsed() time.Duration
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime paces ticks against the wall clock.
	RealTime Mode = iota
	// Accelerated steps by Tick as fast as listeners allow.
	Accelerated
)

func (m Mode) String() string {
	if m == Accelerated {
		return "accelerated"
	}
	return "realtime"
}

// Listener is invoked once per tick with the new simulation time and the
// fixed step.
type Listener func(simTime time.Time, dt time.Duration)

// TimeController drives a fixed-timestep loop. Listeners run sequentially
// on the controller's goroutine, so they never race with each other.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time
	ticks       uint64

	listeners []Listener
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// Elapsed returns simulation time since StartTime. Implements SimClock.
func (tc *TimeController) Elapsed() time.Duration {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime.Sub(tc.StartTime)
}

// Ticks returns how many ticks have been delivered.
func (tc *TimeController) Ticks() uint64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.ticks
}

// SetTime moves the simulation clock without notifying listeners.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick. Register before
// Start.
func (tc *TimeController) AddListener(fn Listener) {
	if fn == nil {
		return
	}
	tc.listeners = append(tc.listeners, fn)
}

// Step advances one tick synchronously and notifies listeners.
func (tc *TimeController) Step() time.Time {
	tc.mu.Lock()
	tc.currentTime = tc.currentTime.Add(tc.Tick)
	tc.ticks++
	simTime := tc.currentTime
	tc.mu.Unlock()

	for _, fn := range tc.listeners {
		fn(simTime, tc.Tick)
	}
	return simTime
}

// Start runs the loop on a separate goroutine until duration of simulation
// time has elapsed (forever when duration <= 0) or ctx is cancelled. The
// returned channel is closed when the loop exits.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		tc.currentTime = tc.StartTime
		tc.mu.Unlock()

		var tick <-chan time.Time
		if tc.Mode == RealTime {
			ticker := time.NewTicker(tc.Tick)
			defer ticker.Stop()
			tick = ticker.C
		}

		elapsed := time.Duration(0)
		for {
			if duration > 0 && elapsed >= duration {
				return
			}
			if tick != nil {
				select {
				case <-ctx.Done():
					return
				case <-tick:
				}
			} else if ctx.Err() != nil {
				return
			}

			tc.Step()
			elapsed += tc.Tick
		}
	}()
	return done
}
