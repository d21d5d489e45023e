// Package session implements the Session API boundary over the travel
// planning graph: start/resume/inspect/cancel/stream a single planning
// run, independent of whatever transport (CLI today, per DESIGN.md) drives
// it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/graph/store"
	"github.com/Anuraag-Deoda/Travel-Planner-agentic-ai/trip"
	"github.com/google/uuid"
)

// Status is the coarse lifecycle state of a session, as returned by every
// Session API method.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusSuspended Status = "suspended"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Result is the shape every Session API method returns.
type Result struct {
	SessionID string
	Status    Status
	Output    *trip.TravelItinerary
	Questions []trip.ClarificationQuestion
	State     trip.State
	Err       error
}

// StreamEvent is the wire shape StreamSession delivers: a node_start/
// node_end/error event relayed straight from the graph, or a questions/
// complete event synthesized by Manager once a run reaches a terminal
// status.
type StreamEvent struct {
	Type    string
	Name    string
	Payload interface{}
}

// sessionHandle is the in-memory registry entry for one session. The
// durable state lives in store.Store; this struct only tracks what's
// needed to serve GetSession/CancelSession while a run is in flight or
// just after it finishes.
type sessionHandle struct {
	mu     sync.Mutex
	status Status
	state  trip.State
	err    error
	cancel context.CancelFunc
}

// Manager implements the Session API. It wraps one graph.Engine[trip.State],
// one store.Store[trip.State], and an in-memory session registry; sessions
// are cheap, short-lived handles, durable state is always in the store.
type Manager struct {
	engine  *graph.Engine[trip.State]
	store   store.Store[trip.State]
	emitter *FanoutEmitter

	mu       sync.RWMutex
	sessions map[string]*sessionHandle
}

// NewManager wires an engine, store, and fan-out emitter into a Manager.
// The emitter must be the same one passed to workflow.Build when engine
// was constructed, or StreamSession will never see any events.
func NewManager(engine *graph.Engine[trip.State], st store.Store[trip.State], emitter *FanoutEmitter) *Manager {
	return &Manager{
		engine:   engine,
		store:    st,
		emitter:  emitter,
		sessions: make(map[string]*sessionHandle),
	}
}

// isSuspended detects the engine's suspended-sentinel state: the
// clarification node stopped the graph because it needs answers, rather
// than the graph reaching a node-less terminal state for any other reason.
func isSuspended(s trip.State) bool {
	return s.ClarificationNeeded && len(s.ClarificationQuestions) > 0 && s.ClarificationAnswers == nil
}

// StartSession begins a new planning run from free-text input. It blocks
// until the graph reaches a terminal status: completed, suspended waiting
// on clarification answers, or failed. The session ID is minted inside this
// call and only returned once it finishes, so callers inspect a run's events
// afterwards through the emitter's recorded history.
func (m *Manager) StartSession(ctx context.Context, requestText string) (Result, error) {
	sessionID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)

	handle := &sessionHandle{status: StatusRunning, cancel: cancel}
	m.mu.Lock()
	m.sessions[sessionID] = handle
	m.mu.Unlock()

	initial := trip.State{RawRequest: requestText}
	final, err := m.engine.Run(runCtx, sessionID, initial)
	return m.finish(sessionID, handle, final, err), nil
}

// ResumeSession applies clarification answers to a suspended session and
// continues execution from the process_answers node. It rejects a session
// that was never suspended, or one that has already been resumed, with a
// KindInputInvalid error rather than silently re-running a completed plan.
func (m *Manager) ResumeSession(ctx context.Context, sessionID string, answers map[string]string) (Result, error) {
	m.mu.RLock()
	handle, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Result{}, trip.NewError(trip.KindInputInvalid, "session", fmt.Errorf("unknown session %q", sessionID))
	}

	handle.mu.Lock()
	if handle.status != StatusSuspended {
		status := handle.status
		handle.mu.Unlock()
		return Result{}, trip.NewError(trip.KindInputInvalid, "session",
			fmt.Errorf("session %q is not awaiting answers (status=%s)", sessionID, status))
	}
	latest := handle.state
	handle.mu.Unlock()

	merged := trip.Reduce(latest, trip.State{ClarificationAnswers: answers})

	latestStep, err := m.latestStep(ctx, sessionID)
	if err != nil {
		return Result{}, trip.NewError(trip.KindInputInvalid, "session", err)
	}
	if err := m.store.SaveCheckpoint(ctx, sessionID, merged, latestStep); err != nil {
		return Result{}, trip.NewError(trip.KindInputInvalid, "session", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	handle.mu.Lock()
	handle.cancel = cancel
	handle.status = StatusRunning
	handle.mu.Unlock()

	final, runErr := m.engine.ResumeFromCheckpoint(runCtx, sessionID, sessionID, "process_answers")
	return m.finish(sessionID, handle, final, runErr), nil
}

// latestStep returns the step number of the most recently persisted state
// for runID, needed because store.SaveCheckpoint takes an explicit step
// rather than inferring "latest" itself.
func (m *Manager) latestStep(ctx context.Context, runID string) (int, error) {
	_, step, err := m.store.LoadLatest(ctx, runID)
	if err != nil {
		return 0, err
	}
	return step, nil
}

// finish records the outcome of a Run/ResumeFromCheckpoint call on the
// session handle and builds the Result every Session API method returns.
func (m *Manager) finish(sessionID string, handle *sessionHandle, final trip.State, err error) Result {
	handle.mu.Lock()
	defer handle.mu.Unlock()

	if err != nil {
		handle.status = StatusFailed
		handle.err = err
		return Result{SessionID: sessionID, Status: StatusFailed, Err: err}
	}

	handle.state = final

	if isSuspended(final) {
		handle.status = StatusSuspended
		return Result{
			SessionID: sessionID,
			Status:    StatusSuspended,
			Questions: final.ClarificationQuestions,
			State:     final,
		}
	}

	handle.status = StatusCompleted
	return Result{
		SessionID: sessionID,
		Status:    StatusCompleted,
		Output:    final.FinalItinerary,
		State:     final,
	}
}

// GetSession reports a session's current status and, for a still-running
// or suspended session, its most recently persisted partial state.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (Result, error) {
	m.mu.RLock()
	handle, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Result{}, trip.NewError(trip.KindInputInvalid, "session", fmt.Errorf("unknown session %q", sessionID))
	}

	handle.mu.Lock()
	status := handle.status
	state := handle.state
	runErr := handle.err
	handle.mu.Unlock()

	if status == StatusRunning {
		if latest, _, err := m.store.LoadLatest(ctx, sessionID); err == nil {
			state = latest
		}
	}

	return Result{
		SessionID: sessionID,
		Status:    status,
		Output:    state.FinalItinerary,
		Questions: state.ClarificationQuestions,
		State:     state,
		Err:       runErr,
	}, nil
}

// CancelSession requests cooperative cancellation of a running session.
// The engine observes cancellation at its next step boundary; state up to
// the last completed checkpoint is preserved in the store.
func (m *Manager) CancelSession(sessionID string) error {
	m.mu.RLock()
	handle, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return trip.NewError(trip.KindInputInvalid, "session", fmt.Errorf("unknown session %q", sessionID))
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.status != StatusRunning {
		return nil
	}
	if handle.cancel != nil {
		handle.cancel()
	}
	handle.status = StatusCancelled
	return nil
}

// StreamSession subscribes to the event stream for sessionID, translating
// the engine's node_start/node_end/error/routing_decision events into the
// wire shape plus two domain-level synthesized events: "questions" when the
// session lands on suspended, and "complete" when it finishes with an
// itinerary. The returned unsubscribe func must be called once the caller
// is done reading, or the underlying channel leaks as a registered
// subscriber on the emitter.
func (m *Manager) StreamSession(sessionID string) (<-chan StreamEvent, func()) {
	raw, unsubRaw := m.emitter.Subscribe(sessionID)
	out := make(chan StreamEvent, 32)

	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-raw:
				if !ok {
					return
				}
				out <- StreamEvent{Type: event.Msg, Name: event.NodeID, Payload: event.Meta}
				// The engine persists SaveStep before emitting node_end, so
				// LoadLatest here observes the just-merged state, not a
				// stale one — handle.state is only updated after the whole
				// (blocking) Run call returns, which is too late for a
				// mid-run synthesized event.
				if event.Msg == "node_end" && (event.NodeID == "clarification" || event.NodeID == "finalize") {
					if state, _, err := m.store.LoadLatest(context.Background(), sessionID); err == nil {
						if event.NodeID == "clarification" && isSuspended(state) {
							out <- StreamEvent{Type: "questions", Payload: state.ClarificationQuestions}
						}
						if event.NodeID == "finalize" && state.FinalItinerary != nil {
							out <- StreamEvent{Type: "complete", Payload: state.FinalItinerary}
						}
					}
				}
			case <-done:
				return
			}
		}
	}()

	unsubscribe := func() {
		close(done)
		unsubRaw()
	}
	return out, unsubscribe
}
