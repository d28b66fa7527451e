package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func marshalSnapshot(snap *audit.SessionSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, nil
	}
	return json.Marshal(snap)
}

// Create implements audit.AuditRepository.
func (r *auditRepository) Create(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	entry.ID = uuid.Must(uuid.NewV7()).String()

	oldValues, err := marshalSnapshot(entry.OldValues)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to marshal old values: %w", err)
	}
	newValues, err := marshalSnapshot(entry.NewValues)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to marshal new values: %w", err)
	}

	query := `
		INSERT INTO audit_log_entries (
			id, actor_id, action, target_user_id, entity_id, reason,
			ip_address, user_agent, old_values, new_values
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.TargetUserID,
		entry.EntityID,
		entry.Reason,
		entry.IPAddress,
		entry.UserAgent,
		oldValues,
		newValues,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to create audit entry: %w", err)
	}

	return entry, nil
}

// ListByTargetUser implements audit.AuditRepository.
func (r *auditRepository) ListByTargetUser(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, actor_id, action, target_user_id, entity_id, reason,
		       ip_address, user_agent, old_values, new_values, created_at
		FROM audit_log_entries
		WHERE target_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var entry audit.Entry
		var oldValues, newValues []byte

		err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.TargetUserID,
			&entry.EntityID, &entry.Reason, &entry.IPAddress, &entry.UserAgent,
			&oldValues, &newValues, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		if len(oldValues) > 0 {
			entry.OldValues = &audit.SessionSnapshot{}
			if err := json.Unmarshal(oldValues, entry.OldValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old values: %w", err)
			}
		}
		if len(newValues) > 0 {
			entry.NewValues = &audit.SessionSnapshot{}
			if err := json.Unmarshal(newValues, entry.NewValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new values: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}
