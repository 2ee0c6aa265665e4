package kb

import (
	"sync"

	"github.com/signalsfoundry/orrery/model"
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventFramePublished EventType = iota
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type  EventType
	Frame model.Frame
}

// KnowledgeBase is a thread-safe store of the latest settled frame. The
// simulation publishes once per tick; renderers and exporters read from it.
type KnowledgeBase struct {
	mu sync.RWMutex

	frame     model.Frame
	hasFrame  bool
	bodies    map[string]model.BodyState
	published uint64

	subs   map[int]func(Event)
	nextID int
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		bodies: make(map[string]model.BodyState),
		subs:   make(map[int]func(Event)),
	}
}

// PublishFrame replaces the current frame and notifies subscribers.
// The frame's slices are copied so later mutation by the caller is not
// observed.
func (kb *KnowledgeBase) PublishFrame(f model.Frame) {
	f = cloneFrame(f)

	kb.mu.Lock()
	kb.frame = f
	kb.hasFrame = true
	kb.published++
	clear(kb.bodies)
	for _, b := range f.Bodies {
		kb.bodies[b.Name] = b
	}
	subs := make([]func(Event), 0, len(kb.subs))
	for _, fn := range kb.subs {
		subs = append(subs, fn)
	}
	kb.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	event := Event{Type: EventFramePublished, Frame: f}
	for _, sub := range subs {
		sub(event)
	}
}

// LatestFrame returns the most recent frame, or false before the first
// publish.
func (kb *KnowledgeBase) LatestFrame() (model.Frame, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return cloneFrame(kb.frame), kb.hasFrame
}

// GetBody returns the named body from the latest frame.
func (kb *KnowledgeBase) GetBody(name string) (model.BodyState, bool) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	b, ok := kb.bodies[name]
	return b, ok
}

// ListBodies returns the latest frame's bodies in export order.
func (kb *KnowledgeBase) ListBodies() []model.BodyState {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return append([]model.BodyState(nil), kb.frame.Bodies...)
}

// Published returns how many frames have been published.
func (kb *KnowledgeBase) Published() uint64 {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.published
}

// Subscribe registers a callback for KB events. It returns an unsubscribe
// function that is safe to call more than once.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	id := kb.nextID
	kb.nextID++
	kb.subs[id] = fn

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		delete(kb.subs, id)
	}
}

func cloneFrame(f model.Frame) model.Frame {
	f.Bodies = append([]model.BodyState(nil), f.Bodies...)
	f.Orbits = append([]model.OrbitRing(nil), f.Orbits...)
	return f
}
