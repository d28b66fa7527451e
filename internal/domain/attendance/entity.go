package attendance

import "time"

const (
	StatusPresent = "present"
	StatusHalfDay = "half_day"
	StatusAbsent  = "absent"
)

// StatusForPercentage maps an attendance percentage to the day's status.
// Thresholds: >= 90 present, >= 45 half day, otherwise absent.
func StatusForPercentage(pct int) string {
	switch {
	case pct >= 90:
		return StatusPresent
	case pct >= 45:
		return StatusHalfDay
	default:
		return StatusAbsent
	}
}

// SessionSummary is the per-session slice embedded in a daily record,
// persisted as JSONB.
type SessionSummary struct {
	SessionID       string  `json:"session_id"`
	ClockIn         string  `json:"clock_in"`
	ClockOut        string  `json:"clock_out"`
	DurationMinutes int     `json:"duration_minutes"`
	BreakMinutes    int     `json:"break_minutes"`
	Notes           *string `json:"notes,omitempty"`
}

// DailyRecord is the single derived attendance summary for one user on one
// calendar date. It is recomputed from the full completed-session list on
// every aggregation, never incremented.
type DailyRecord struct {
	ID                   string
	UserID               string
	Date                 time.Time
	ShiftID              *string
	Sessions             []SessionSummary
	WorkMinutes          int
	BreakMinutes         int
	IsLateCheckIn        bool
	IsEarlyCheckOut      bool
	IsOvertime           bool
	OvertimeMinutes      int
	AttendancePercentage int
	Status               string
	Note                 *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
