package shift

import (
	"github.com/shiftlog/timekeeper-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	Name                  string `json:"name"`
	StartTime             string `json:"start_time"` // "HH:MM"
	EndTime               string `json:"end_time"`
	GracePeriodMinutes    int    `json:"grace_period_minutes"`
	BreakAllowanceMinutes int    `json:"break_allowance_minutes"`
	IsDefault             bool   `json:"is_default"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if _, ok := validator.IsValidTimeOfDay(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in HH:MM format",
		})
	}

	if _, ok := validator.IsValidTimeOfDay(r.EndTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in HH:MM format",
		})
	}

	if r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must not be negative",
		})
	}

	if r.BreakAllowanceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_allowance_minutes",
			Message: "break_allowance_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssignShiftRequest struct {
	UserID  string `json:"user_id"`
	ShiftID string `json:"shift_id"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	GracePeriodMinutes    int    `json:"grace_period_minutes"`
	BreakAllowanceMinutes int    `json:"break_allowance_minutes"`
	IsDefault             bool   `json:"is_default"`
	IsActive              bool   `json:"is_active"`
}

type AssignmentResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	ShiftID   string  `json:"shift_id"`
	ShiftName *string `json:"shift_name,omitempty"`
	IsActive  bool    `json:"is_active"`
}
