package session

import "context"

// LifecycleService owns the per-user session state machine:
// NONE -> ACTIVE -> (ACTIVE_ON_BREAK <-> ACTIVE) -> COMPLETED.
type LifecycleService interface {
	// ClockIn opens a session for the user. Fails with ErrAlreadyActive if
	// one is already open.
	ClockIn(ctx context.Context, userID string) (SessionResponse, error)

	// StartBreak opens a break on the user's active session
	StartBreak(ctx context.Context, userID string) (SessionResponse, error)

	// EndBreak closes the open break on the user's active session
	EndBreak(ctx context.Context, userID string) (SessionResponse, error)

	// ClockOut completes the user's active session, auto-closing any open
	// break, and synchronously re-aggregates the day's attendance record
	ClockOut(ctx context.Context, userID string) (SessionResponse, error)

	// GetActiveSession retrieves the user's open session, if any
	GetActiveSession(ctx context.Context, userID string) (*SessionResponse, error)
}

// ManualEntryService is the privileged path for creating, editing and
// deleting sessions outside the live lifecycle. Every mutation writes an
// audit entry in the same transaction. Authorization is enforced by the
// caller.
type ManualEntryService interface {
	// CreateManualSession creates an already-completed session for a
	// (user, date) with no existing session
	CreateManualSession(ctx context.Context, req CreateManualSessionRequest) (SessionResponse, error)

	// UpdateManualSession rewrites a session's bounds and recomputes its
	// work minutes, preserving break minutes
	UpdateManualSession(ctx context.Context, req UpdateManualSessionRequest) (SessionResponse, error)

	// DeleteManualSession hard-removes a session
	DeleteManualSession(ctx context.Context, req DeleteManualSessionRequest) error
}
