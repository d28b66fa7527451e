package response

import (
	"errors"
	"net/http"

	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/shift"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/shiftlog/timekeeper-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session lifecycle errors
	case errors.Is(err, session.ErrAlreadyActive):
		Conflict(w, "An active session already exists")
	case errors.Is(err, session.ErrNoActiveSession):
		Conflict(w, "No active session exists")
	case errors.Is(err, session.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already open")
	case errors.Is(err, session.ErrNoOpenBreak):
		Conflict(w, "No open break exists")
	case errors.Is(err, session.ErrSessionExistsForDate):
		Conflict(w, "A session already exists for this date")
	case errors.Is(err, session.ErrInvalidTimeRange):
		BadRequest(w, "Clock-out must be after clock-in", nil)
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")

	// Attendance errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Shift errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrNoShiftConfigured):
		NotFound(w, "No shift configured")
	case errors.Is(err, shift.ErrShiftInactive):
		Conflict(w, "Shift is not active")

	// User errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
