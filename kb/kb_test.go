package kb

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/signalsfoundry/orrery/model"
)

func testFrame(tick uint64, names ...string) model.Frame {
	f := model.Frame{Tick: tick}
	for i, n := range names {
		f.Bodies = append(f.Bodies, model.BodyState{
			Name:     n,
			Kind:     model.BodyKindPlanet,
			Position: mgl64.Vec3{float64(i), 0, float64(tick)},
			Scale:    1,
			Material: "rock",
		})
	}
	return f
}

func TestLatestFrameBeforePublish(t *testing.T) {
	store := NewKnowledgeBase()
	if _, ok := store.LatestFrame(); ok {
		t.Fatalf("expected no frame before publish")
	}
	if _, ok := store.GetBody("Tierra"); ok {
		t.Fatalf("expected no body before publish")
	}
}

func TestPublishAndGetBody(t *testing.T) {
	store := NewKnowledgeBase()
	store.PublishFrame(testFrame(1, "Mercurio", "Venus"))

	got, ok := store.GetBody("Venus")
	if !ok || got.Position != (mgl64.Vec3{1, 0, 1}) {
		t.Fatalf("GetBody(Venus) = %#v, %v", got, ok)
	}

	store.PublishFrame(testFrame(2, "Mercurio"))
	if _, ok := store.GetBody("Venus"); ok {
		t.Fatalf("Venus should be gone after a frame without it")
	}
	if got := len(store.ListBodies()); got != 1 {
		t.Fatalf("ListBodies len=%d, want 1", got)
	}
	if store.Published() != 2 {
		t.Fatalf("Published = %d, want 2", store.Published())
	}
}

func TestPublishedFrameIsIsolated(t *testing.T) {
	store := NewKnowledgeBase()
	f := testFrame(1, "Marte")
	store.PublishFrame(f)
	f.Bodies[0].Name = "mutated"

	latest, _ := store.LatestFrame()
	if latest.Bodies[0].Name != "Marte" {
		t.Fatalf("caller mutation leaked into KB: %q", latest.Bodies[0].Name)
	}
	latest.Bodies[0].Name = "again"
	if again, _ := store.LatestFrame(); again.Bodies[0].Name != "Marte" {
		t.Fatalf("reader mutation leaked into KB: %q", again.Bodies[0].Name)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	store := NewKnowledgeBase()

	var got []uint64
	unsubscribe := store.Subscribe(func(e Event) {
		if e.Type != EventFramePublished {
			t.Errorf("got event type %v, want EventFramePublished", e.Type)
		}
		got = append(got, e.Frame.Tick)
	})

	store.PublishFrame(testFrame(7, "Sol"))
	unsubscribe()
	unsubscribe()
	store.PublishFrame(testFrame(8, "Sol"))

	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("subscriber saw ticks %v, want [7]", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewKnowledgeBase()

	var wg sync.WaitGroup
	// Concurrent readers/writers
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.GetBody("b-0")
			_ = store.ListBodies()
			_, _ = store.LatestFrame()
		}()
		go func() {
			defer wg.Done()
			store.PublishFrame(testFrame(uint64(i), fmt.Sprintf("b-%d", i%3)))
		}()
	}
	wg.Wait()

	if store.Published() != 10 {
		t.Fatalf("Published = %d, want 10", store.Published())
	}
}
