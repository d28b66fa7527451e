package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlog/timekeeper-go/internal/domain/shift"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = uuid.Must(uuid.NewV7()).String()

	query := `
		INSERT INTO shifts (
			id, name, start_time, end_time, grace_period_minutes,
			break_allowance_minutes, is_default, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.Name,
		s.StartTime,
		s.EndTime,
		s.GracePeriodMinutes,
		s.BreakAllowanceMinutes,
		s.IsDefault,
		s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, grace_period_minutes,
		       break_allowance_minutes, is_default, is_active, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var s shift.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GracePeriodMinutes,
		&s.BreakAllowanceMinutes, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return s, nil
}

// GetDefault implements shift.ShiftRepository.
func (r *shiftRepository) GetDefault(ctx context.Context) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, grace_period_minutes,
		       break_allowance_minutes, is_default, is_active, created_at, updated_at
		FROM shifts
		WHERE is_default AND is_active
		LIMIT 1
	`

	var s shift.Shift
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GracePeriodMinutes,
		&s.BreakAllowanceMinutes, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get default shift: %w", err)
	}

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, grace_period_minutes,
		       break_allowance_minutes, is_default, is_active, created_at, updated_at
		FROM shifts
		ORDER BY is_active DESC, created_at
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var s shift.Shift
		if err := rows.Scan(
			&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GracePeriodMinutes,
			&s.BreakAllowanceMinutes, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

type assignmentRepository struct {
	db *database.DB
}

// Create implements shift.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	a.ID = uuid.Must(uuid.NewV7()).String()

	query := `
		INSERT INTO shift_assignments (id, user_id, shift_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, a.ID, a.UserID, a.ShiftID, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return shift.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// GetActiveByUser implements shift.AssignmentRepository.
func (r *assignmentRepository) GetActiveByUser(ctx context.Context, userID string) (*shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.user_id, a.shift_id, a.is_active, a.created_at, a.updated_at,
		       s.name AS shift_name
		FROM shift_assignments a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.user_id = $1 AND a.is_active
		LIMIT 1
	`

	var a shift.Assignment
	err := q.QueryRow(ctx, query, userID).Scan(
		&a.ID, &a.UserID, &a.ShiftID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		&a.ShiftName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No active assignment
		}
		return nil, fmt.Errorf("failed to get active shift assignment: %w", err)
	}

	return &a, nil
}

// DeactivateByUser implements shift.AssignmentRepository.
func (r *assignmentRepository) DeactivateByUser(ctx context.Context, userID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_active
	`

	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate shift assignments: %w", err)
	}

	return tag.RowsAffected(), nil
}

func NewAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &assignmentRepository{db: db}
}
