package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

const sessionColumns = `
	id, user_id, date, clock_in, clock_out, status,
	total_work_minutes, total_break_minutes, notes, created_at, updated_at
`

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.ClockIn, &s.ClockOut, &s.Status,
		&s.TotalWorkMinutes, &s.TotalBreakMinutes, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// loadBreaks attaches breaks to the given sessions, ordered by start.
func (r *sessionRepository) loadBreaks(ctx context.Context, sessions []session.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	ids := make([]string, 0, len(sessions))
	byID := make(map[string]*session.Session, len(sessions))
	for i := range sessions {
		ids = append(ids, sessions[i].ID)
		byID[sessions[i].ID] = &sessions[i]
	}

	query := `
		SELECT id, session_id, started_at, ended_at, auto_closed, created_at
		FROM session_breaks
		WHERE session_id = ANY($1)
		ORDER BY started_at
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query session breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b session.Break
		if err := rows.Scan(&b.ID, &b.SessionID, &b.StartedAt, &b.EndedAt, &b.AutoClosed, &b.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan session break: %w", err)
		}
		if s, ok := byID[b.SessionID]; ok {
			s.Breaks = append(s.Breaks, b)
		}
	}

	return rows.Err()
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = uuid.Must(uuid.NewV7()).String()

	query := `
		INSERT INTO time_sessions (
			id, user_id, date, clock_in, clock_out, status,
			total_work_minutes, total_break_minutes, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.UserID,
		s.Date,
		s.ClockIn,
		s.ClockOut,
		s.Status,
		s.TotalWorkMinutes,
		s.TotalBreakMinutes,
		s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s, nil
}

// GetByID implements session.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM time_sessions WHERE id = $1`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	sessions := []session.Session{s}
	if err := r.loadBreaks(ctx, sessions); err != nil {
		return session.Session{}, err
	}

	return sessions[0], nil
}

// GetActiveByUser implements session.SessionRepository.
func (r *sessionRepository) GetActiveByUser(ctx context.Context, userID string) (*session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM time_sessions
		WHERE user_id = $1 AND status = 'active'
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No active session
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	sessions := []session.Session{s}
	if err := r.loadBreaks(ctx, sessions); err != nil {
		return nil, err
	}

	return &sessions[0], nil
}

// HasSessionForDate implements session.SessionRepository.
func (r *sessionRepository) HasSessionForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_sessions WHERE user_id = $1 AND date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return exists, nil
}

// ListCompletedByUserAndDate implements session.SessionRepository.
func (r *sessionRepository) ListCompletedByUserAndDate(ctx context.Context, userID string, date time.Time) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM time_sessions
		WHERE user_id = $1 AND date = $2 AND status = 'completed'
		ORDER BY clock_in
	`

	rows, err := q.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadBreaks(ctx, sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListStaleActive implements session.SessionRepository.
func (r *sessionRepository) ListStaleActive(ctx context.Context, maxDate time.Time) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM time_sessions
		WHERE status = 'active' AND clock_out IS NULL AND date <= $1
		ORDER BY date, clock_in
	`

	rows, err := q.Query(ctx, query, maxDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadBreaks(ctx, sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Complete implements session.SessionRepository. The update is conditioned on
// status='active' so a live clock-out and the stuck-session sweep racing on
// the same row produce exactly one winner; the loser sees zero rows.
func (r *sessionRepository) Complete(ctx context.Context, id string, clockOut time.Time, workMinutes, breakMinutes int, note *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_sessions
		SET clock_out = $2,
		    total_work_minutes = $3,
		    total_break_minutes = $4,
		    status = 'completed',
		    notes = CASE
		        WHEN $5::text IS NULL THEN notes
		        ELSE COALESCE(notes || E'\n', '') || $5::text
		    END,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	tag, err := q.Exec(ctx, query, id, clockOut, workMinutes, breakMinutes, note)
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Update implements session.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, s session.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_sessions
		SET date = $2,
		    clock_in = $3,
		    clock_out = $4,
		    status = $5,
		    total_work_minutes = $6,
		    total_break_minutes = $7,
		    notes = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		s.ID, s.Date, s.ClockIn, s.ClockOut, s.Status,
		s.TotalWorkMinutes, s.TotalBreakMinutes, s.Notes,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// Delete implements session.SessionRepository.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM time_sessions WHERE id = $1`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

// AddBreak implements session.SessionRepository.
func (r *sessionRepository) AddBreak(ctx context.Context, b session.Break) (session.Break, error) {
	q := GetQuerier(ctx, r.db)

	b.ID = uuid.Must(uuid.NewV7()).String()

	query := `
		INSERT INTO session_breaks (id, session_id, started_at, ended_at, auto_closed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, b.ID, b.SessionID, b.StartedAt, b.EndedAt, b.AutoClosed).
		Scan(&b.CreatedAt)
	if err != nil {
		return session.Break{}, fmt.Errorf("failed to add break: %w", err)
	}

	return b, nil
}

// CloseBreak implements session.SessionRepository.
func (r *sessionRepository) CloseBreak(ctx context.Context, breakID string, endedAt time.Time, autoClosed bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE session_breaks
		SET ended_at = $2, auto_closed = $3
		WHERE id = $1 AND ended_at IS NULL
	`

	tag, err := q.Exec(ctx, query, breakID, endedAt, autoClosed)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return session.ErrNoOpenBreak
	}

	return nil
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}
