package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
	"github.com/shiftlog/timekeeper-go/internal/repository/postgresql"
)

type ManualEntryServiceImpl struct {
	db *database.DB
	session.SessionRepository
	user.UserRepository
	audit.AuditRepository
	attendanceService attendance.AttendanceService

	// Injectable transaction runner for tests; defaults to
	// postgresql.WithTransaction
	tx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *ManualEntryServiceImpl) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.tx != nil {
		return m.tx(ctx, fn)
	}
	return postgresql.WithTransaction(ctx, m.db, fn)
}

// snapshot captures a session's auditable state. Manual mutations store one
// of these on each side of the change.
func snapshot(s session.Session) *audit.SessionSnapshot {
	snap := &audit.SessionSnapshot{
		Date:              s.Date.Format("2006-01-02"),
		ClockIn:           s.ClockIn.Format(time.RFC3339),
		Status:            s.Status,
		TotalWorkMinutes:  s.TotalWorkMinutes,
		TotalBreakMinutes: s.TotalBreakMinutes,
		Notes:             s.Notes,
	}
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		snap.ClockOut = &out
	}
	return snap
}

func actorFields(actor audit.Actor) (ip, agent *string) {
	if actor.IPAddress != "" {
		ip = &actor.IPAddress
	}
	if actor.UserAgent != "" {
		agent = &actor.UserAgent
	}
	return ip, agent
}

// reaggregate re-derives the daily record after a committed manual mutation.
// The session rows are already consistent; a failed derivation is logged and
// left for the next aggregation over the same day.
func (m *ManualEntryServiceImpl) reaggregate(ctx context.Context, userID string, date time.Time) {
	if _, err := m.attendanceService.Aggregate(ctx, userID, date); err != nil {
		slog.Error("failed to aggregate attendance after manual mutation",
			slog.String("user_id", userID),
			slog.String("date", date.Format("2006-01-02")),
			slog.Any("error", err),
		)
	}
}

// CreateManualSession implements session.ManualEntryService.
func (m *ManualEntryServiceImpl) CreateManualSession(ctx context.Context, req session.CreateManualSessionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	if _, err := m.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return session.SessionResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	clockIn, _ := time.Parse(time.RFC3339, req.ClockIn)
	clockOut, _ := time.Parse(time.RFC3339, req.ClockOut)
	clockIn = clockIn.UTC()
	clockOut = clockOut.UTC()

	workMinutes, breakMinutes := session.ComputeTotals(clockIn, clockOut, nil)

	var created session.Session
	err := m.runTx(ctx, func(txCtx context.Context) error {
		// Checked inside the transaction so two concurrent creates for the
		// same (user, date) cannot both pass the pre-check and insert.
		exists, err := m.SessionRepository.HasSessionForDate(txCtx, req.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to check existing sessions: %w", err)
		}
		if exists {
			return session.ErrSessionExistsForDate
		}

		created, err = m.SessionRepository.Create(txCtx, session.Session{
			UserID:            req.UserID,
			Date:              date,
			ClockIn:           clockIn,
			ClockOut:          &clockOut,
			Status:            session.StatusCompleted,
			TotalWorkMinutes:  &workMinutes,
			TotalBreakMinutes: &breakMinutes,
			Notes:             req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create manual session: %w", err)
		}

		ip, agent := actorFields(req.Actor)
		_, err = m.AuditRepository.Create(txCtx, audit.Entry{
			ActorID:      req.Actor.UserID,
			Action:       audit.ActionManualSessionCreate,
			TargetUserID: req.UserID,
			EntityID:     created.ID,
			Reason:       req.Reason,
			IPAddress:    ip,
			UserAgent:    agent,
			NewValues:    snapshot(created),
		})
		if err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	m.reaggregate(ctx, req.UserID, date)

	return session.ToResponse(created), nil
}

// UpdateManualSession implements session.ManualEntryService. Only the clock
// bounds and notes move; break rows stay as recorded, so break minutes are
// preserved and work minutes re-derived against the new span.
func (m *ManualEntryServiceImpl) UpdateManualSession(ctx context.Context, req session.UpdateManualSessionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	current, err := m.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	before := snapshot(current)

	updated := current
	if req.ClockIn != nil {
		clockIn, _ := time.Parse(time.RFC3339, *req.ClockIn)
		updated.ClockIn = clockIn.UTC()
	}
	if req.ClockOut != nil {
		clockOut, _ := time.Parse(time.RFC3339, *req.ClockOut)
		out := clockOut.UTC()
		updated.ClockOut = &out
	}
	if req.Notes != nil {
		updated.Notes = req.Notes
	}

	if updated.ClockOut == nil {
		return session.SessionResponse{}, session.ErrInvalidTimeRange
	}
	if !updated.ClockOut.After(updated.ClockIn) {
		return session.SessionResponse{}, session.ErrInvalidTimeRange
	}

	workMinutes, breakMinutes := session.ComputeTotals(updated.ClockIn, *updated.ClockOut, updated.Breaks)
	updated.Status = session.StatusCompleted
	updated.TotalWorkMinutes = &workMinutes
	updated.TotalBreakMinutes = &breakMinutes

	err = m.runTx(ctx, func(txCtx context.Context) error {
		if err := m.SessionRepository.Update(txCtx, updated); err != nil {
			return err
		}

		ip, agent := actorFields(req.Actor)
		_, err := m.AuditRepository.Create(txCtx, audit.Entry{
			ActorID:      req.Actor.UserID,
			Action:       audit.ActionManualSessionUpdate,
			TargetUserID: updated.UserID,
			EntityID:     updated.ID,
			Reason:       req.Reason,
			IPAddress:    ip,
			UserAgent:    agent,
			OldValues:    before,
			NewValues:    snapshot(updated),
		})
		if err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	m.reaggregate(ctx, updated.UserID, updated.Date)

	return session.ToResponse(updated), nil
}

// DeleteManualSession implements session.ManualEntryService.
func (m *ManualEntryServiceImpl) DeleteManualSession(ctx context.Context, req session.DeleteManualSessionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	current, err := m.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	err = m.runTx(ctx, func(txCtx context.Context) error {
		if err := m.SessionRepository.Delete(txCtx, req.ID); err != nil {
			return err
		}

		ip, agent := actorFields(req.Actor)
		_, err := m.AuditRepository.Create(txCtx, audit.Entry{
			ActorID:      req.Actor.UserID,
			Action:       audit.ActionManualSessionDelete,
			TargetUserID: current.UserID,
			EntityID:     current.ID,
			Reason:       req.Reason,
			IPAddress:    ip,
			UserAgent:    agent,
			OldValues:    snapshot(current),
		})
		if err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.reaggregate(ctx, current.UserID, current.Date)

	return nil
}

func NewManualEntryService(
	db *database.DB,
	sessionRepo session.SessionRepository,
	userRepo user.UserRepository,
	auditRepo audit.AuditRepository,
	attendanceService attendance.AttendanceService,
) session.ManualEntryService {
	return &ManualEntryServiceImpl{
		db:                db,
		SessionRepository: sessionRepo,
		UserRepository:    userRepo,
		AuditRepository:   auditRepo,
		attendanceService: attendanceService,
	}
}
