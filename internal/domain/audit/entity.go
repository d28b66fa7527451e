package audit

import "time"

// Action tags the mutation kind an entry records. Each kind has a typed
// before/after snapshot shape; there is no free-form payload.
type Action string

const (
	ActionManualSessionCreate Action = "manual_session_create"
	ActionManualSessionUpdate Action = "manual_session_update"
	ActionManualSessionDelete Action = "manual_session_delete"
)

// Actor identifies who performed a privileged mutation and from where.
// Built by the HTTP layer from the access token claims and the request.
type Actor struct {
	UserID    string
	Role      string
	IPAddress string
	UserAgent string
}

// SessionSnapshot is the typed before/after payload for the manual session
// actions.
type SessionSnapshot struct {
	Date              string  `json:"date"`
	ClockIn           string  `json:"clock_in"`
	ClockOut          *string `json:"clock_out,omitempty"`
	Status            string  `json:"status"`
	TotalWorkMinutes  *int    `json:"total_work_minutes,omitempty"`
	TotalBreakMinutes *int    `json:"total_break_minutes,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// Entry is an immutable, append-only audit record. Entries are never updated
// or deleted.
type Entry struct {
	ID           string
	ActorID      string
	Action       Action
	TargetUserID string
	EntityID     string
	Reason       string
	IPAddress    *string
	UserAgent    *string
	OldValues    *SessionSnapshot
	NewValues    *SessionSnapshot
	CreatedAt    time.Time
}
