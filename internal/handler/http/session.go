package http

import (
	"net/http"

	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/middleware"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/response"
)

type SessionHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	lifecycleService session.LifecycleService
}

func NewSessionHandler(lifecycleService session.LifecycleService) SessionHandler {
	return &sessionHandlerImpl{
		lifecycleService: lifecycleService,
	}
}

// ClockIn implements SessionHandler.
func (h *sessionHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	resp, err := h.lifecycleService.ClockIn(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", resp)
}

// ClockOut implements SessionHandler.
func (h *sessionHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	resp, err := h.lifecycleService.ClockOut(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", resp)
}

// StartBreak implements SessionHandler.
func (h *sessionHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	resp, err := h.lifecycleService.StartBreak(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", resp)
}

// EndBreak implements SessionHandler.
func (h *sessionHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	resp, err := h.lifecycleService.EndBreak(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", resp)
}

// GetActive implements SessionHandler.
func (h *sessionHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	resp, err := h.lifecycleService.GetActiveSession(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if resp == nil {
		response.NotFound(w, "No active session")
		return
	}

	response.Success(w, resp)
}
