package trip

import "fmt"

// Kind is a coarse classification of planner failures, used by callers to
// decide retry/surface behavior without string-matching error text.
type Kind string

const (
	// KindInputInvalid means the raw request (or clarification answers)
	// could not be parsed into usable trip parameters.
	KindInputInvalid Kind = "input_invalid"
	// KindOracleFailure means a worker's call to its language-model oracle
	// failed or returned output that could not be validated against its
	// expected schema, after retries.
	KindOracleFailure Kind = "oracle_failure"
	// KindSourceFailure means a data-source capability (places lookup,
	// price scraper) failed for every attempted source on a segment.
	KindSourceFailure Kind = "source_failure"
	// KindSuspended means the run is paused awaiting clarification answers.
	// It is not a true failure; callers use it to distinguish a suspended
	// session from a completed or errored one.
	KindSuspended Kind = "suspended"
	// KindExceededStepBudget means the graph exceeded its configured
	// maximum step count before reaching the finalizer.
	KindExceededStepBudget Kind = "exceeded_step_budget"
	// KindExceededReplanBudget means the critic requested another replan
	// after the maximum replan iteration count had already been reached.
	// In practice the critic force-approves at the cap, so this indicates
	// a bug in that decision rule rather than a normal run outcome.
	KindExceededReplanBudget Kind = "exceeded_replan_budget"
	// KindCancelled means the caller cancelled the session's context.
	KindCancelled Kind = "cancelled"
)

// PlannerError is the error type every node and the session manager return
// for domain-level failures. It satisfies errors.Is against its Kind and
// errors.As for unwrapping the underlying cause.
type PlannerError struct {
	Kind   Kind
	NodeID string
	Cause  error
}

func (e *PlannerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.NodeID, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.NodeID, e.Kind)
}

func (e *PlannerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *PlannerError with the same Kind, so
// callers can write errors.Is(err, &trip.PlannerError{Kind: trip.KindSuspended}).
func (e *PlannerError) Is(target error) bool {
	t, ok := target.(*PlannerError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return true
	}
	return e.Kind == t.Kind
}

// NewError constructs a PlannerError with the given kind, node, and cause.
func NewError(kind Kind, nodeID string, cause error) *PlannerError {
	return &PlannerError{Kind: kind, NodeID: nodeID, Cause: cause}
}
