package timectrl

import (
	"context"
	"testing"
	"time"
)

func TestTimeControllerSetTime(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second, RealTime)

	newNow := start.Add(42 * time.Second)
	tc.SetTime(newNow)

	if got := tc.Now(); !got.Equal(newNow) {
		t.Fatalf("Now() = %v, want %v", got, newNow)
	}
	if got := tc.Elapsed(); got != 42*time.Second {
		t.Fatalf("Elapsed() = %v, want 42s", got)
	}
}

func TestTimeControllerStartUpdatesNow(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, 5*time.Millisecond, Accelerated)

	var steps []time.Duration
	tc.AddListener(func(_ time.Time, dt time.Duration) {
		steps = append(steps, dt)
	})

	done := tc.Start(context.Background(), 15*time.Millisecond)
	<-done

	expected := start.Add(15 * time.Millisecond)
	if got := tc.Now(); !got.Equal(expected) {
		t.Fatalf("Now() = %v, want %v", got, expected)
	}
	if len(steps) != 3 || tc.Ticks() != 3 {
		t.Fatalf("ticks = %d (listener saw %d), want 3", tc.Ticks(), len(steps))
	}
	for _, dt := range steps {
		if dt != 5*time.Millisecond {
			t.Fatalf("listener dt = %v, want 5ms", dt)
		}
	}
}

func TestTimeControllerStopsOnCancel(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Millisecond, RealTime)

	ctx, cancel := context.WithCancel(context.Background())
	done := tc.Start(ctx, 0)
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("controller did not stop after cancel")
	}
	if tc.Ticks() == 0 {
		t.Fatalf("expected at least one tick before cancel")
	}
}

func TestTimeControllerStepIsSynchronous(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tc := NewTimeController(start, time.Second/60, Accelerated)

	calls := 0
	tc.AddListener(func(time.Time, time.Duration) { calls++ })
	tc.AddListener(nil)

	tc.Step()
	tc.Step()
	if calls != 2 {
		t.Fatalf("listener calls = %d, want 2", calls)
	}
}
