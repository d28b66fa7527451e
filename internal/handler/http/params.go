package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shiftlog/timekeeper-go/internal/pkg/validator"
)

// userIDParam extracts the userID path parameter, rejecting anything that is
// not a UUIDv7 before it reaches a repository query.
func userIDParam(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "userID")
	return id, validator.IsValidUUID(id)
}

func sessionIDParam(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	return id, validator.IsValidUUID(id)
}
