package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for daily attendance records.
type RecordRepository interface {
	// Upsert inserts or fully replaces the record for (user, date)
	Upsert(ctx context.Context, rec DailyRecord) (DailyRecord, error)

	// CreateIfAbsent inserts the record only if none exists for (user, date).
	// Returns false when a record was already present. Used by the absence
	// sweep so re-runs are no-ops.
	CreateIfAbsent(ctx context.Context, rec DailyRecord) (bool, error)

	// GetByUserAndDate retrieves the record for (user, date)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (DailyRecord, error)

	// Exists reports whether a record exists for (user, date)
	Exists(ctx context.Context, userID string, date time.Time) (bool, error)

	// ListByUserRange retrieves a user's records within [from, to], newest first
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]DailyRecord, error)
}
