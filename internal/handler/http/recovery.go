package http

import (
	"net/http"

	"github.com/shiftlog/timekeeper-go/internal/handler/http/response"
	"github.com/shiftlog/timekeeper-go/internal/service/recovery"
)

// RecoveryHandler exposes manual triggers for the recovery sweeps. Both
// sweeps are idempotent, so an operator can fire them at any time without
// waiting for the scheduled window.
type RecoveryHandler interface {
	TriggerAbsenceSweep(w http.ResponseWriter, r *http.Request)
	TriggerStuckSweep(w http.ResponseWriter, r *http.Request)
}

type recoveryHandlerImpl struct {
	recoveryService *recovery.RecoveryService
}

func NewRecoveryHandler(recoveryService *recovery.RecoveryService) RecoveryHandler {
	return &recoveryHandlerImpl{
		recoveryService: recoveryService,
	}
}

// TriggerAbsenceSweep implements RecoveryHandler.
func (h *recoveryHandlerImpl) TriggerAbsenceSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.recoveryService.RunAbsenceSweep(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence sweep completed", result)
}

// TriggerStuckSweep implements RecoveryHandler.
func (h *recoveryHandlerImpl) TriggerStuckSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.recoveryService.RunStuckSweep(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Stuck session sweep completed", result)
}
