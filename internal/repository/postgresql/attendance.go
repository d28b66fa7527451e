package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// Upsert implements attendance.RecordRepository. Aggregation always writes
// the full derived row, so conflicts on (user_id, date) replace every
// derived column.
func (r *attendanceRepository) Upsert(ctx context.Context, rec attendance.DailyRecord) (attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	sessionsJSON, err := json.Marshal(summariesOrEmpty(rec.Sessions))
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to marshal session summaries: %w", err)
	}

	query := `
		INSERT INTO daily_attendance_records (
			id, user_id, date, shift_id, sessions, work_minutes, break_minutes,
			is_late_check_in, is_early_check_out, is_overtime, overtime_minutes,
			attendance_percentage, status, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, date) DO UPDATE SET
			shift_id = EXCLUDED.shift_id,
			sessions = EXCLUDED.sessions,
			work_minutes = EXCLUDED.work_minutes,
			break_minutes = EXCLUDED.break_minutes,
			is_late_check_in = EXCLUDED.is_late_check_in,
			is_early_check_out = EXCLUDED.is_early_check_out,
			is_overtime = EXCLUDED.is_overtime,
			overtime_minutes = EXCLUDED.overtime_minutes,
			attendance_percentage = EXCLUDED.attendance_percentage,
			status = EXCLUDED.status,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		rec.UserID,
		rec.Date,
		rec.ShiftID,
		sessionsJSON,
		rec.WorkMinutes,
		rec.BreakMinutes,
		rec.IsLateCheckIn,
		rec.IsEarlyCheckOut,
		rec.IsOvertime,
		rec.OvertimeMinutes,
		rec.AttendancePercentage,
		rec.Status,
		rec.Note,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return rec, nil
}

// CreateIfAbsent implements attendance.RecordRepository. Returns false when a
// record for (user_id, date) already exists, which keeps the absence sweep
// idempotent without read-then-write races.
func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.DailyRecord) (bool, error) {
	q := GetQuerier(ctx, r.db)

	sessionsJSON, err := json.Marshal(summariesOrEmpty(rec.Sessions))
	if err != nil {
		return false, fmt.Errorf("failed to marshal session summaries: %w", err)
	}

	query := `
		INSERT INTO daily_attendance_records (
			id, user_id, date, shift_id, sessions, work_minutes, break_minutes,
			is_late_check_in, is_early_check_out, is_overtime, overtime_minutes,
			attendance_percentage, status, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		rec.UserID,
		rec.Date,
		rec.ShiftID,
		sessionsJSON,
		rec.WorkMinutes,
		rec.BreakMinutes,
		rec.IsLateCheckIn,
		rec.IsEarlyCheckOut,
		rec.IsOvertime,
		rec.OvertimeMinutes,
		rec.AttendancePercentage,
		rec.Status,
		rec.Note,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func summariesOrEmpty(s []attendance.SessionSummary) []attendance.SessionSummary {
	if s == nil {
		return []attendance.SessionSummary{}
	}
	return s
}

const attendanceColumns = `
	id, user_id, date, shift_id, sessions, work_minutes, break_minutes,
	is_late_check_in, is_early_check_out, is_overtime, overtime_minutes,
	attendance_percentage, status, note, created_at, updated_at
`

func scanRecord(row pgx.Row) (attendance.DailyRecord, error) {
	var rec attendance.DailyRecord
	var sessionsJSON []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.ShiftID, &sessionsJSON,
		&rec.WorkMinutes, &rec.BreakMinutes,
		&rec.IsLateCheckIn, &rec.IsEarlyCheckOut, &rec.IsOvertime,
		&rec.OvertimeMinutes, &rec.AttendancePercentage, &rec.Status,
		&rec.Note, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.DailyRecord{}, err
	}

	if len(sessionsJSON) > 0 {
		if err := json.Unmarshal(sessionsJSON, &rec.Sessions); err != nil {
			return attendance.DailyRecord{}, fmt.Errorf("failed to unmarshal session summaries: %w", err)
		}
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.RecordRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM daily_attendance_records WHERE user_id = $1 AND date = $2`

	rec, err := scanRecord(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.DailyRecord{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// Exists implements attendance.RecordRepository.
func (r *attendanceRepository) Exists(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM daily_attendance_records WHERE user_id = $1 AND date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance record existence: %w", err)
	}

	return exists, nil
}

// ListByUserRange implements attendance.RecordRepository.
func (r *attendanceRepository) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.DailyRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM daily_attendance_records
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}
