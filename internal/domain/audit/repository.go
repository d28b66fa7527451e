package audit

import "context"

// AuditRepository persists audit entries. The trail is append-only: there are
// no update or delete methods by design of the schema, not just this
// interface.
type AuditRepository interface {
	// Create appends an audit entry
	Create(ctx context.Context, entry Entry) (Entry, error)

	// ListByTargetUser retrieves entries affecting a user, newest first
	ListByTargetUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
