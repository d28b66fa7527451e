package shift

import "time"

// Shift is the expected working-hours template applied to a user. Historical
// daily records keep the shift id they were computed with; edits only affect
// future resolution.
type Shift struct {
	ID                    string
	Name                  string
	StartTime             time.Time // wall clock, date component ignored
	EndTime               time.Time
	GracePeriodMinutes    int
	BreakAllowanceMinutes int
	IsDefault             bool
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Assignment links a user to a shift. At most one active assignment per user;
// no active assignment means the default shift applies.
type Assignment struct {
	ID        string
	UserID    string
	ShiftID   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	ShiftName *string
}

// Config is the resolved, computation-ready view of a shift.
type Config struct {
	ShiftID               string
	Name                  string
	StartMinutes          int // minutes from midnight, org-local
	EndMinutes            int
	GracePeriodMinutes    int
	BreakAllowanceMinutes int
}

// MinutesOfDay converts a timestamp's wall-clock component to minutes from
// midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func (s Shift) Config() Config {
	return Config{
		ShiftID:               s.ID,
		Name:                  s.Name,
		StartMinutes:          MinutesOfDay(s.StartTime),
		EndMinutes:            MinutesOfDay(s.EndTime),
		GracePeriodMinutes:    s.GracePeriodMinutes,
		BreakAllowanceMinutes: s.BreakAllowanceMinutes,
	}
}

// DurationMinutes is end minus start, wrapped across midnight when the shift
// ends on the next day.
func (c Config) DurationMinutes() int {
	d := c.EndMinutes - c.StartMinutes
	if d <= 0 {
		d += 24 * 60
	}
	return d
}

func (c Config) ExpectedWorkMinutes() int {
	expected := c.DurationMinutes() - c.BreakAllowanceMinutes
	if expected < 0 {
		return 0
	}
	return expected
}

// FallbackConfig is the conservative shape applied when neither an assignment
// nor a default shift exists: a 9-hour day with no grace and no paid break.
// Attendance capture must not block on missing configuration.
func FallbackConfig() Config {
	return Config{
		Name:                  "fallback",
		StartMinutes:          9 * 60,
		EndMinutes:            18 * 60,
		GracePeriodMinutes:    0,
		BreakAllowanceMinutes: 0,
	}
}
