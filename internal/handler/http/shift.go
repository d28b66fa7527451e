package http

import (
	"encoding/json"
	"net/http"

	"github.com/shiftlog/timekeeper-go/internal/domain/shift"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/middleware"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/response"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Unassign(w http.ResponseWriter, r *http.Request)
	GetMyShift(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created", resp)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shiftService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// Assign implements ShiftHandler.
func (h *shiftHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	userID, ok := userIDParam(r)
	if !ok {
		response.BadRequest(w, "userID must be a valid UUID", nil)
		return
	}
	req.UserID = userID

	resp, err := h.shiftService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned", resp)
}

// Unassign implements ShiftHandler.
func (h *shiftHandlerImpl) Unassign(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		response.BadRequest(w, "userID must be a valid UUID", nil)
		return
	}

	if err := h.shiftService.UnassignShift(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift unassigned", nil)
}

// GetMyShift implements ShiftHandler.
func (h *shiftHandlerImpl) GetMyShift(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	cfg, err := h.shiftService.Resolve(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resolvedShiftResponse{
		ShiftID:               cfg.ShiftID,
		Name:                  cfg.Name,
		StartMinutes:          cfg.StartMinutes,
		EndMinutes:            cfg.EndMinutes,
		GracePeriodMinutes:    cfg.GracePeriodMinutes,
		BreakAllowanceMinutes: cfg.BreakAllowanceMinutes,
		ExpectedWorkMinutes:   cfg.ExpectedWorkMinutes(),
	})
}

type resolvedShiftResponse struct {
	ShiftID               string `json:"shift_id,omitempty"`
	Name                  string `json:"name"`
	StartMinutes          int    `json:"start_minutes"`
	EndMinutes            int    `json:"end_minutes"`
	GracePeriodMinutes    int    `json:"grace_period_minutes"`
	BreakAllowanceMinutes int    `json:"break_allowance_minutes"`
	ExpectedWorkMinutes   int    `json:"expected_work_minutes"`
}
