package progression

import "errors"

// Typed errors surfaced by the engine. Handlers map these onto HTTP status
// codes; the engine itself never retries and never holds partial state.
var (
	// ErrProfileNotFound means no progression profile exists for the user.
	// Callers must create one before mutating.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidAmount rejects non-positive point deltas
	ErrInvalidAmount = errors.New("points amount must be positive")

	// ErrNoAnswerSelected rejects advancing a quiz session with no pending answer
	ErrNoAnswerSelected = errors.New("no answer selected")

	// ErrInvalidAnswer rejects an answer index outside the question's options
	ErrInvalidAnswer = errors.New("answer index out of range")

	// ErrSessionState rejects an operation not valid in the session's current state
	ErrSessionState = errors.New("invalid quiz session state")

	// ErrAnswerCount rejects a submission whose answer list does not cover
	// every question exactly once
	ErrAnswerCount = errors.New("answer count does not match question count")

	// ErrUnknownQuiz and ErrUnknownHabit reject ids missing from the catalog
	ErrUnknownQuiz  = errors.New("unknown quiz")
	ErrUnknownHabit = errors.New("unknown habit")

	// ErrUnknownCriteria marks a malformed badge catalog entry. A single bad
	// badge is skipped; it never aborts the rest of an evaluation pass.
	ErrUnknownCriteria = errors.New("unknown badge criteria type")

	// ErrStoreUnavailable wraps transient store transport failures. Safe to
	// retry with backoff at the caller.
	ErrStoreUnavailable = errors.New("profile store unavailable")

	// ErrStaleProfile means a compare-and-set profile write lost a race. With
	// engine-level per-user locking this indicates an external writer.
	ErrStaleProfile = errors.New("stale profile write")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

