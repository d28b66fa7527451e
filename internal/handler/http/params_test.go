package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

// stubAttendanceService serves a fixed daily record.
type stubAttendanceService struct {
	attendance.AttendanceService
	lastUserID string
}

func (s *stubAttendanceService) GetDailyRecord(_ context.Context, userID string, _ time.Time) (attendance.RecordResponse, error) {
	s.lastUserID = userID
	return attendance.RecordResponse{UserID: userID}, nil
}

func requestWithUserID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/attendance/users/"+id+"?date=2025-03-10", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userID", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUserIDParamValidation(t *testing.T) {
	t.Run("rejects a non-uuid path param", func(t *testing.T) {
		svc := &stubAttendanceService{}
		h := NewAttendanceHandler(svc)

		rec := httptest.NewRecorder()
		h.GetUserDaily(rec, requestWithUserID("not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.lastUserID)
	})

	t.Run("passes a uuid through to the service", func(t *testing.T) {
		svc := &stubAttendanceService{}
		h := NewAttendanceHandler(svc)

		id := "0195c9a3-5f7a-7b3c-8d4e-1a2b3c4d5e6f"
		rec := httptest.NewRecorder()
		h.GetUserDaily(rec, requestWithUserID(id))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, svc.lastUserID)
	})
}
