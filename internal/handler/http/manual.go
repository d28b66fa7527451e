package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/middleware"
	"github.com/shiftlog/timekeeper-go/internal/handler/http/response"
)

type ManualSessionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListAudit(w http.ResponseWriter, r *http.Request)
}

type manualSessionHandlerImpl struct {
	manualService session.ManualEntryService
	auditRepo     audit.AuditRepository
}

func NewManualSessionHandler(manualService session.ManualEntryService, auditRepo audit.AuditRepository) ManualSessionHandler {
	return &manualSessionHandlerImpl{
		manualService: manualService,
		auditRepo:     auditRepo,
	}
}

// actorFromRequest builds the audit actor from the verified token claims and
// the request metadata.
func actorFromRequest(r *http.Request) audit.Actor {
	return audit.Actor{
		UserID:    middleware.UserIDFromContext(r.Context()),
		Role:      middleware.RoleFromContext(r.Context()),
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// Create implements ManualSessionHandler.
func (h *manualSessionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req session.CreateManualSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Actor = actorFromRequest(r)

	resp, err := h.manualService.CreateManualSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual session created", resp)
}

// Update implements ManualSessionHandler.
func (h *manualSessionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req session.UpdateManualSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, ok := sessionIDParam(r)
	if !ok {
		response.BadRequest(w, "sessionID must be a valid UUID", nil)
		return
	}
	req.ID = id
	req.Actor = actorFromRequest(r)

	resp, err := h.manualService.UpdateManualSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual session updated", resp)
}

// Delete implements ManualSessionHandler.
func (h *manualSessionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	var req session.DeleteManualSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, ok := sessionIDParam(r)
	if !ok {
		response.BadRequest(w, "sessionID must be a valid UUID", nil)
		return
	}
	req.ID = id
	req.Actor = actorFromRequest(r)

	if err := h.manualService.DeleteManualSession(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual session deleted", nil)
}

// ListAudit implements ManualSessionHandler.
func (h *manualSessionHandlerImpl) ListAudit(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		response.BadRequest(w, "userID must be a valid UUID", nil)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			response.BadRequest(w, "limit must be a positive integer up to 500", nil)
			return
		}
		limit = parsed
	}

	entries, err := h.auditRepo.ListByTargetUser(r.Context(), userID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toAuditResponses(entries))
}

type auditEntryResponse struct {
	ID           string                 `json:"id"`
	ActorID      string                 `json:"actor_id"`
	Action       string                 `json:"action"`
	TargetUserID string                 `json:"target_user_id"`
	EntityID     string                 `json:"entity_id"`
	Reason       string                 `json:"reason"`
	IPAddress    *string                `json:"ip_address,omitempty"`
	UserAgent    *string                `json:"user_agent,omitempty"`
	OldValues    *audit.SessionSnapshot `json:"old_values,omitempty"`
	NewValues    *audit.SessionSnapshot `json:"new_values,omitempty"`
	CreatedAt    string                 `json:"created_at"`
}

func toAuditResponses(entries []audit.Entry) []auditEntryResponse {
	responses := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, auditEntryResponse{
			ID:           e.ID,
			ActorID:      e.ActorID,
			Action:       string(e.Action),
			TargetUserID: e.TargetUserID,
			EntityID:     e.EntityID,
			Reason:       e.Reason,
			IPAddress:    e.IPAddress,
			UserAgent:    e.UserAgent,
			OldValues:    e.OldValues,
			NewValues:    e.NewValues,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}
