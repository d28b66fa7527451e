package attendance

import (
	"context"
	"time"
)

// AttendanceService owns the daily attendance derivation rules. Both the live
// lifecycle and the recovery sweeps go through Aggregate; the arithmetic
// lives nowhere else.
type AttendanceService interface {
	// Aggregate recomputes the daily record for (user, date) from the full
	// completed-session list and upserts it. Idempotent: N calls over the
	// same sessions produce identical output. Serialized per (user, date).
	Aggregate(ctx context.Context, userID string, date time.Time) (DailyRecord, error)

	// GetDailyRecord retrieves the record for (user, date)
	GetDailyRecord(ctx context.Context, userID string, date time.Time) (RecordResponse, error)

	// ListRecords retrieves a user's records within a date range
	ListRecords(ctx context.Context, userID string, from, to time.Time) ([]RecordResponse, error)
}
