package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
)

const uniqueViolationCode = "23505"

type LifecycleServiceImpl struct {
	session.SessionRepository
	user.UserRepository
	attendanceService attendance.AttendanceService
	loc               *time.Location

	// Injectable clock for tests; defaults to time.Now
	now func() time.Time
}

func (l *LifecycleServiceImpl) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// orgDate truncates a timestamp to the org-local calendar date. The date a
// session belongs to is fixed here, at clock-in, even when the session runs
// past midnight.
func (l *LifecycleServiceImpl) orgDate(t time.Time) time.Time {
	local := t.In(l.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ClockIn implements session.LifecycleService.
func (l *LifecycleServiceImpl) ClockIn(ctx context.Context, userID string) (session.SessionResponse, error) {
	u, err := l.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return session.SessionResponse{}, err
	}
	if !u.IsEmployable() {
		return session.SessionResponse{}, user.ErrUserNotFound
	}

	active, err := l.SessionRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to check active session: %w", err)
	}
	if active != nil {
		return session.SessionResponse{}, session.ErrAlreadyActive
	}

	now := l.clock().UTC()

	created, err := l.SessionRepository.Create(ctx, session.Session{
		UserID:  userID,
		Date:    l.orgDate(now),
		ClockIn: now,
		Status:  session.StatusActive,
	})
	if err != nil {
		// The partial unique index on (user_id) WHERE status='active'
		// arbitrates concurrent clock-ins; the loser lands here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return session.SessionResponse{}, session.ErrAlreadyActive
		}
		return session.SessionResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	return session.ToResponse(created), nil
}

// StartBreak implements session.LifecycleService.
func (l *LifecycleServiceImpl) StartBreak(ctx context.Context, userID string) (session.SessionResponse, error) {
	active, err := l.SessionRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return session.SessionResponse{}, session.ErrNoActiveSession
	}

	if active.OpenBreak() != nil {
		return session.SessionResponse{}, session.ErrBreakAlreadyOpen
	}

	b, err := l.SessionRepository.AddBreak(ctx, session.Break{
		SessionID: active.ID,
		StartedAt: l.clock().UTC(),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return session.SessionResponse{}, session.ErrBreakAlreadyOpen
		}
		return session.SessionResponse{}, fmt.Errorf("failed to start break: %w", err)
	}

	active.Breaks = append(active.Breaks, b)
	return session.ToResponse(*active), nil
}

// EndBreak implements session.LifecycleService.
func (l *LifecycleServiceImpl) EndBreak(ctx context.Context, userID string) (session.SessionResponse, error) {
	active, err := l.SessionRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return session.SessionResponse{}, session.ErrNoActiveSession
	}

	open := active.OpenBreak()
	if open == nil {
		return session.SessionResponse{}, session.ErrNoOpenBreak
	}

	endedAt := l.clock().UTC()
	if err := l.SessionRepository.CloseBreak(ctx, open.ID, endedAt, false); err != nil {
		return session.SessionResponse{}, err
	}

	open.EndedAt = &endedAt
	return session.ToResponse(*active), nil
}

// ClockOut implements session.LifecycleService. Completing the session and
// re-deriving the day's attendance record are sequential: the session row is
// the source of truth, the daily record a projection of it.
func (l *LifecycleServiceImpl) ClockOut(ctx context.Context, userID string) (session.SessionResponse, error) {
	active, err := l.SessionRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return session.SessionResponse{}, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return session.SessionResponse{}, session.ErrNoActiveSession
	}

	now := l.clock().UTC()

	if open := active.OpenBreak(); open != nil {
		if err := l.SessionRepository.CloseBreak(ctx, open.ID, now, true); err != nil {
			return session.SessionResponse{}, err
		}
		endedAt := now
		open.EndedAt = &endedAt
		open.AutoClosed = true
	}

	workMinutes, breakMinutes := session.ComputeTotals(active.ClockIn, now, active.Breaks)

	completed, err := l.SessionRepository.Complete(ctx, active.ID, now, workMinutes, breakMinutes, nil)
	if err != nil {
		return session.SessionResponse{}, err
	}
	if !completed {
		// The stuck-session sweep closed the session between our read and
		// write. The winner already aggregated; return its state as-is.
		closed, err := l.SessionRepository.GetByID(ctx, active.ID)
		if err != nil {
			return session.SessionResponse{}, err
		}
		return session.ToResponse(closed), nil
	}

	active.Status = session.StatusCompleted
	active.ClockOut = &now
	active.TotalWorkMinutes = &workMinutes
	active.TotalBreakMinutes = &breakMinutes

	// The daily record is derivable at any time, so a failed aggregation
	// must not undo a successful clock-out.
	if _, err := l.attendanceService.Aggregate(ctx, userID, active.Date); err != nil {
		slog.Error("failed to aggregate attendance after clock-out",
			slog.String("user_id", userID),
			slog.String("session_id", active.ID),
			slog.Any("error", err),
		)
	}

	return session.ToResponse(*active), nil
}

// GetActiveSession implements session.LifecycleService.
func (l *LifecycleServiceImpl) GetActiveSession(ctx context.Context, userID string) (*session.SessionResponse, error) {
	active, err := l.SessionRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	resp := session.ToResponse(*active)
	return &resp, nil
}

func NewLifecycleService(
	sessionRepo session.SessionRepository,
	userRepo user.UserRepository,
	attendanceService attendance.AttendanceService,
	loc *time.Location,
	now func() time.Time,
) session.LifecycleService {
	return &LifecycleServiceImpl{
		SessionRepository: sessionRepo,
		UserRepository:    userRepo,
		attendanceService: attendanceService,
		loc:               loc,
		now:               now,
	}
}
