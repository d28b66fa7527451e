package session

import "errors"

// Session domain errors
var (
	// Lifecycle state-conflict errors: recoverable by the caller re-checking
	// state, never retried automatically.
	ErrAlreadyActive    = errors.New("an active session already exists for this user")
	ErrNoActiveSession  = errors.New("no active session exists for this user")
	ErrBreakAlreadyOpen = errors.New("a break is already open for this session")
	ErrNoOpenBreak      = errors.New("no open break exists for this session")

	// Manual entry validation errors
	ErrSessionExistsForDate = errors.New("a session already exists for this user and date")
	ErrInvalidTimeRange     = errors.New("clock-out must be after clock-in")

	// General errors
	ErrSessionNotFound = errors.New("session not found")
)
