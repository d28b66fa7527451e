package http

import (
	"net/http"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/middleware"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetMyDaily(w http.ResponseWriter, r *http.Request)
	ListMyRecords(w http.ResponseWriter, r *http.Request)
	GetUserDaily(w http.ResponseWriter, r *http.Request)
	ListUserRecords(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (h *attendanceHandlerImpl) getDaily(w http.ResponseWriter, r *http.Request, userID string) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		response.BadRequest(w, "date query param is required in YYYY-MM-DD format", nil)
		return
	}

	resp, err := h.attendanceService.GetDailyRecord(r.Context(), userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *attendanceHandlerImpl) listRecords(w http.ResponseWriter, r *http.Request, userID string) {
	from, okFrom := parseDateParam(r, "from")
	to, okTo := parseDateParam(r, "to")
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to query params are required in YYYY-MM-DD format", nil)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "to must not be before from", nil)
		return
	}

	records, err := h.attendanceService.ListRecords(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// GetMyDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyDaily(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}
	h.getDaily(w, r, userID)
}

// ListMyRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}
	h.listRecords(w, r, userID)
}

// GetUserDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetUserDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		response.BadRequest(w, "userID must be a valid UUID", nil)
		return
	}
	h.getDaily(w, r, userID)
}

// ListUserRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListUserRecords(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		response.BadRequest(w, "userID must be a valid UUID", nil)
		return
	}
	h.listRecords(w, r, userID)
}
