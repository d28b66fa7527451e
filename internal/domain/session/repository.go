package session

import (
	"context"
	"time"
)

// SessionRepository defines data access for time sessions and their breaks.
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, s Session) (Session, error)

	// GetByID retrieves a session with its breaks
	GetByID(ctx context.Context, id string) (Session, error)

	// GetActiveByUser retrieves the user's active session (with breaks),
	// nil when none exists
	GetActiveByUser(ctx context.Context, userID string) (*Session, error)

	// HasSessionForDate reports whether any session exists for (user, date)
	// Used by the manual path's one-session-per-date rule and the absence sweep
	HasSessionForDate(ctx context.Context, userID string, date time.Time) (bool, error)

	// ListCompletedByUserAndDate retrieves completed sessions for (user, date)
	// ordered by clock-in, with breaks
	ListCompletedByUserAndDate(ctx context.Context, userID string, date time.Time) ([]Session, error)

	// ListStaleActive retrieves active sessions whose date is on or before
	// maxDate, with breaks. Used by the stuck-session sweep.
	ListStaleActive(ctx context.Context, maxDate time.Time) ([]Session, error)

	// Complete transitions a session active->completed with a guarded update
	// conditioned on status='active'. Returns false when the session was no
	// longer active, which callers treat as losing the race, not an error.
	Complete(ctx context.Context, id string, clockOut time.Time, workMinutes, breakMinutes int, note *string) (bool, error)

	// Update rewrites a session's bounds and totals (manual path only)
	Update(ctx context.Context, s Session) error

	// Delete hard-removes a session and its breaks (manual path only)
	Delete(ctx context.Context, id string) error

	// AddBreak appends a break to a session
	AddBreak(ctx context.Context, b Break) (Break, error)

	// CloseBreak sets a break's end. autoClosed marks system-initiated ends.
	CloseBreak(ctx context.Context, breakID string, endedAt time.Time, autoClosed bool) error
}
