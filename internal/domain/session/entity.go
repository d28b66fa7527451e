package session

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Session is one clock-in-to-clock-out cycle for one user on one calendar
// date. Date is the org-local day the session belongs to, which is fixed at
// clock-in even if the session runs past midnight.
type Session struct {
	ID                string
	UserID            string
	Date              time.Time
	ClockIn           time.Time
	ClockOut          *time.Time
	Status            string
	TotalWorkMinutes  *int
	TotalBreakMinutes *int
	Notes             *string
	Breaks            []Break
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s Session) IsActive() bool {
	return s.Status == StatusActive
}

// OpenBreak returns the session's open break, if any. The store enforces at
// most one.
func (s Session) OpenBreak() *Break {
	for i := range s.Breaks {
		if s.Breaks[i].EndedAt == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

// Break is a paused sub-interval owned by a session. AutoClosed marks ends
// written by clock-out or the stuck-session sweep rather than the user.
type Break struct {
	ID         string
	SessionID  string
	StartedAt  time.Time
	EndedAt    *time.Time
	AutoClosed bool
	CreatedAt  time.Time
}

// DurationMinutes is zero while the break is open.
func (b Break) DurationMinutes() int {
	if b.EndedAt == nil {
		return 0
	}
	return int(b.EndedAt.Sub(b.StartedAt).Minutes())
}

// ComputeTotals derives a session's stored totals. Every close path (live
// clock-out, stuck-session sweep, manual entry) goes through this one
// formula: break minutes are summed over closed breaks, work minutes are the
// clock span minus break minutes, floored at zero.
func ComputeTotals(clockIn, clockOut time.Time, breaks []Break) (workMinutes, breakMinutes int) {
	for _, b := range breaks {
		breakMinutes += b.DurationMinutes()
	}

	workMinutes = int(clockOut.Sub(clockIn).Minutes()) - breakMinutes
	if workMinutes < 0 {
		workMinutes = 0
	}
	return workMinutes, breakMinutes
}
