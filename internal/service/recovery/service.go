package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/shiftlog/timekeeper-go/internal/pkg/obs"
)

const (
	JobAbsenceSweep = "absence_sweep"
	JobStuckSweep   = "stuck_sweep"

	outcomeProcessed = "processed"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

// SweepResult summarizes one sweep run. Failed counts units whose error was
// logged and skipped over; a sweep run itself only fails when its initial
// listing query does.
type SweepResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RecoveryService owns the two attendance repair paths: marking silent users
// absent and force-closing forgotten sessions. Both are idempotent and safe
// to re-run.
type RecoveryService struct {
	userRepo          user.UserRepository
	sessionRepo       session.SessionRepository
	recordRepo        attendance.RecordRepository
	attendanceService attendance.AttendanceService
	loc               *time.Location

	// Injectable clock for tests; defaults to time.Now
	now func() time.Time
}

func (r *RecoveryService) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// currentDate is the org-local calendar day of now, stored the way session
// and record dates are stored.
func (r *RecoveryService) currentDate() time.Time {
	local := r.clock().In(r.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// RunAbsenceSweep marks every active user with no session and no attendance
// record for the current org-local day as absent. A user whose sessions were
// never aggregated gets a re-derivation instead of an absent mark. A later
// clock-out overwrites the absent mark through the normal upsert path.
func (r *RecoveryService) RunAbsenceSweep(ctx context.Context) (SweepResult, error) {
	date := r.currentDate()

	users, err := r.userRepo.ListActive(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list active users: %w", err)
	}

	var result SweepResult
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			slog.Warn("absence sweep interrupted",
				slog.String("date", date.Format("2006-01-02")),
				slog.Int("processed", result.Processed),
				slog.Any("error", err),
			)
			break
		}

		outcome, err := r.sweepUserAbsence(ctx, u.ID, date)
		if err != nil {
			result.Failed++
			obs.ObserveSweepUnit(JobAbsenceSweep, outcomeFailed)
			slog.Error("absence sweep unit failed",
				slog.String("user_id", u.ID),
				slog.String("date", date.Format("2006-01-02")),
				slog.Any("error", err),
			)
			continue
		}

		obs.ObserveSweepUnit(JobAbsenceSweep, outcome)
		if outcome == outcomeProcessed {
			result.Processed++
		} else {
			result.Skipped++
		}
	}

	obs.ObserveSweepRun(JobAbsenceSweep)
	slog.Info("absence sweep finished",
		slog.String("date", date.Format("2006-01-02")),
		slog.Int("processed", result.Processed),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func (r *RecoveryService) sweepUserAbsence(ctx context.Context, userID string, date time.Time) (string, error) {
	hasRecord, err := r.recordRepo.Exists(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if hasRecord {
		return outcomeSkipped, nil
	}

	hasSession, err := r.sessionRepo.HasSessionForDate(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if hasSession {
		completed, err := r.sessionRepo.ListCompletedByUserAndDate(ctx, userID, date)
		if err != nil {
			return "", err
		}
		if len(completed) == 0 {
			// Still clocked in; the stuck sweep or a live clock-out will
			// roll the day up later.
			return outcomeSkipped, nil
		}
		// Completed sessions exist but were never rolled up; heal by
		// aggregating rather than overwriting real work with an absent mark.
		if _, err := r.attendanceService.Aggregate(ctx, userID, date); err != nil {
			return "", err
		}
		return outcomeProcessed, nil
	}

	note := "marked absent by recovery sweep"
	created, err := r.recordRepo.CreateIfAbsent(ctx, attendance.DailyRecord{
		UserID:   userID,
		Date:     date,
		Sessions: []attendance.SessionSummary{},
		Status:   attendance.StatusAbsent,
		Note:     &note,
	})
	if err != nil {
		return "", err
	}
	if !created {
		// Another run inserted the record between our check and the write.
		return outcomeSkipped, nil
	}

	return outcomeProcessed, nil
}

// RunStuckSweep force-closes active sessions dated on or before the current
// org-local day. Each is completed at 23:59:59 of its own date, open breaks
// are auto-closed at the same instant, and the day is re-aggregated.
func (r *RecoveryService) RunStuckSweep(ctx context.Context) (SweepResult, error) {
	maxDate := r.currentDate()

	stale, err := r.sessionRepo.ListStaleActive(ctx, maxDate)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	var result SweepResult
	for _, s := range stale {
		if err := ctx.Err(); err != nil {
			slog.Warn("stuck session sweep interrupted",
				slog.Int("processed", result.Processed),
				slog.Any("error", err),
			)
			break
		}

		outcome, err := r.closeStuckSession(ctx, s)
		if err != nil {
			result.Failed++
			obs.ObserveSweepUnit(JobStuckSweep, outcomeFailed)
			slog.Error("stuck session sweep unit failed",
				slog.String("session_id", s.ID),
				slog.String("user_id", s.UserID),
				slog.Any("error", err),
			)
			continue
		}

		obs.ObserveSweepUnit(JobStuckSweep, outcome)
		if outcome == outcomeProcessed {
			result.Processed++
		} else {
			result.Skipped++
		}
	}

	obs.ObserveSweepRun(JobStuckSweep)
	slog.Info("stuck session sweep finished",
		slog.Int("processed", result.Processed),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func (r *RecoveryService) closeStuckSession(ctx context.Context, s session.Session) (string, error) {
	// End of the session's own org-local day, not of the day the sweep runs.
	endOfDay := time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		23, 59, 59, 0, r.loc,
	).UTC()

	if open := s.OpenBreak(); open != nil {
		if err := r.sessionRepo.CloseBreak(ctx, open.ID, endOfDay, true); err != nil {
			return "", err
		}
		open.EndedAt = &endOfDay
		open.AutoClosed = true
	}

	workMinutes, breakMinutes := session.ComputeTotals(s.ClockIn, endOfDay, s.Breaks)

	note := "auto-closed by recovery sweep"
	completed, err := r.sessionRepo.Complete(ctx, s.ID, endOfDay, workMinutes, breakMinutes, &note)
	if err != nil {
		return "", err
	}
	if !completed {
		// A live clock-out won the race; nothing to repair.
		return outcomeSkipped, nil
	}

	slog.Info("force-closed stuck session",
		slog.String("session_id", s.ID),
		slog.String("user_id", s.UserID),
		slog.String("date", s.Date.Format("2006-01-02")),
		slog.Int("work_minutes", workMinutes),
	)

	// The close is committed and the session will not be re-listed as
	// stale, so a failed aggregation must not mark the unit failed. The
	// record stays stale until the next aggregation for that day.
	if _, err := r.attendanceService.Aggregate(ctx, s.UserID, s.Date); err != nil {
		slog.Error("failed to aggregate attendance after force-close",
			slog.String("session_id", s.ID),
			slog.String("user_id", s.UserID),
			slog.String("date", s.Date.Format("2006-01-02")),
			slog.Any("error", err),
		)
	}

	return outcomeProcessed, nil
}

func NewRecoveryService(
	userRepo user.UserRepository,
	sessionRepo session.SessionRepository,
	recordRepo attendance.RecordRepository,
	attendanceService attendance.AttendanceService,
	loc *time.Location,
	now func() time.Time,
) *RecoveryService {
	return &RecoveryService{
		userRepo:          userRepo,
		sessionRepo:       sessionRepo,
		recordRepo:        recordRepo,
		attendanceService: attendanceService,
		loc:               loc,
		now:               now,
	}
}
