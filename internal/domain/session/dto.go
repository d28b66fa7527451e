package session

import (
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

type BreakResponse struct {
	ID         string  `json:"id"`
	StartedAt  string  `json:"started_at"`
	EndedAt    *string `json:"ended_at,omitempty"`
	AutoClosed bool    `json:"auto_closed"`
}

type SessionResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Date              string          `json:"date"`
	ClockIn           string          `json:"clock_in"`
	ClockOut          *string         `json:"clock_out,omitempty"`
	Status            string          `json:"status"`
	TotalWorkMinutes  *int            `json:"total_work_minutes,omitempty"`
	TotalBreakMinutes *int            `json:"total_break_minutes,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	Breaks            []BreakResponse `json:"breaks"`
}

// ToResponse converts a Session entity to SessionResponse
func ToResponse(s Session) SessionResponse {
	breaks := make([]BreakResponse, 0, len(s.Breaks))
	for _, b := range s.Breaks {
		br := BreakResponse{
			ID:         b.ID,
			StartedAt:  b.StartedAt.Format(time.RFC3339),
			AutoClosed: b.AutoClosed,
		}
		if b.EndedAt != nil {
			ended := b.EndedAt.Format(time.RFC3339)
			br.EndedAt = &ended
		}
		breaks = append(breaks, br)
	}

	resp := SessionResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		Date:              s.Date.Format("2006-01-02"),
		ClockIn:           s.ClockIn.Format(time.RFC3339),
		Status:            s.Status,
		TotalWorkMinutes:  s.TotalWorkMinutes,
		TotalBreakMinutes: s.TotalBreakMinutes,
		Notes:             s.Notes,
		Breaks:            breaks,
	}
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}

// ========================================
// MANUAL ENTRY DTOs
// ========================================

type CreateManualSessionRequest struct {
	UserID   string      `json:"user_id"`
	Date     string      `json:"date"` // "YYYY-MM-DD"
	ClockIn  string      `json:"clock_in"`
	ClockOut string      `json:"clock_out"`
	Notes    *string     `json:"notes"`
	Reason   string      `json:"reason"`
	Actor    audit.Actor `json:"-"`
}

func (r *CreateManualSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	clockIn, okIn := validator.IsValidDateTime(r.ClockIn)
	if !okIn {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be an ISO8601 timestamp",
		})
	}

	clockOut, okOut := validator.IsValidDateTime(r.ClockOut)
	if !okOut {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be an ISO8601 timestamp",
		})
	}

	if okIn && okOut && !clockOut.After(clockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateManualSessionRequest struct {
	ID       string      `json:"-"`
	ClockIn  *string     `json:"clock_in"`
	ClockOut *string     `json:"clock_out"`
	Notes    *string     `json:"notes"`
	Reason   string      `json:"reason"`
	Actor    audit.Actor `json:"-"`
}

func (r *UpdateManualSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "session id is required",
		})
	}

	if r.ClockIn != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.ClockOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an ISO8601 timestamp",
			})
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DeleteManualSessionRequest struct {
	ID     string      `json:"-"`
	Reason string      `json:"reason"`
	Actor  audit.Actor `json:"-"`
}

func (r *DeleteManualSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "session id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
