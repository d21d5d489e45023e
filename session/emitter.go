package session

import (
	"context"
	"sync"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/emit"
)

// FanoutEmitter implements emit.Emitter by recording every event (the same
// way emit.BufferedEmitter does) while additionally publishing it to any
// channel subscribed for that event's RunID. It is the bridge between the
// engine's single synchronous Run call and StreamSession's concurrent
// reader: a caller subscribes before or during a run and drains events as
// the graph executes, rather than only seeing them after Run returns.
type FanoutEmitter struct {
	mu          sync.Mutex
	history     map[string][]emit.Event
	subscribers map[string][]chan emit.Event
}

// NewFanoutEmitter creates an emitter ready to back a session.Manager.
func NewFanoutEmitter() *FanoutEmitter {
	return &FanoutEmitter{
		history:     make(map[string][]emit.Event),
		subscribers: make(map[string][]chan emit.Event),
	}
}

// Emit records the event and forwards it to every live subscriber for its
// RunID. Forwarding is non-blocking: a subscriber channel that isn't being
// drained fast enough simply misses events rather than stalling the run.
func (f *FanoutEmitter) Emit(event emit.Event) {
	f.mu.Lock()
	f.history[event.RunID] = append(f.history[event.RunID], event)
	subs := f.subscribers[event.RunID]
	f.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// EmitBatch emits each event in order.
func (f *FanoutEmitter) EmitBatch(_ context.Context, events []emit.Event) error {
	for _, event := range events {
		f.Emit(event)
	}
	return nil
}

// Flush is a no-op: FanoutEmitter has no external backend to drain.
func (f *FanoutEmitter) Flush(_ context.Context) error {
	return nil
}

// GetHistory returns every event recorded so far for runID, in emission order.
func (f *FanoutEmitter) GetHistory(runID string) []emit.Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := f.history[runID]
	out := make([]emit.Event, len(events))
	copy(out, events)
	return out
}

// Subscribe returns a channel that receives every future event for runID,
// plus an unsubscribe func the caller must call when done reading. The
// channel is buffered to tolerate brief bursts (one event per node
// start/end/error/routing-decision) without dropping; sustained backpressure
// still drops per the non-blocking send in Emit.
func (f *FanoutEmitter) Subscribe(runID string) (<-chan emit.Event, func()) {
	ch := make(chan emit.Event, 32)

	f.mu.Lock()
	f.subscribers[runID] = append(f.subscribers[runID], ch)
	f.mu.Unlock()

	unsubscribe := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[runID]
		for i, c := range subs {
			if c == ch {
				f.subscribers[runID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}
	return ch, unsubscribe
}

// Clear discards recorded history for runID, freeing memory once a session
// is no longer of interest. Live subscriptions are untouched.
func (f *FanoutEmitter) Clear(runID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.history, runID)
}
