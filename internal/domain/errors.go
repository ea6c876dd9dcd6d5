package domain

import "errors"

// Business-rule violations are sentinel errors so callers can distinguish
// them from infrastructure faults with errors.Is and map them to API codes.
var (
	// ErrInvalidTransition: the requested edge is absent from the
	// transition table, regardless of role.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrForbidden: the edge exists but the acting role does not hold it.
	ErrForbidden = errors.New("role not permitted for this transition")

	// ErrInvalidState: a structural precondition failed, e.g. raising a
	// dispute from a status with no disputed edge.
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrAlreadyResponded: a dispute response exists and is immutable.
	ErrAlreadyResponded = errors.New("dispute response already submitted")

	// ErrInvalidRefund: refund amount exceeds the booking total.
	ErrInvalidRefund = errors.New("refund amount exceeds booking total")

	// ErrConcurrentModification: the optimistic version check failed;
	// the caller should re-fetch and may retry with fresh state.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	ErrNotFound = errors.New("not found")
)
