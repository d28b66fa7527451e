package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/shift"
	"github.com/shiftlog/timekeeper-go/internal/pkg/obs"
)

type AttendanceServiceImpl struct {
	attendance.RecordRepository
	session.SessionRepository
	shiftService shift.ShiftService
	loc          *time.Location

	// Serializes aggregation per (user, date) so concurrent close paths
	// (live clock-out, sweeps, manual entries) cannot interleave their
	// read-derive-write cycles for the same day.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (a *AttendanceServiceImpl) lockFor(userID string, date time.Time) *sync.Mutex {
	key := userID + "|" + date.Format("2006-01-02")

	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.locks[key]
	if !ok {
		l = &sync.Mutex{}
		a.locks[key] = l
	}
	return l
}

// Aggregate implements attendance.AttendanceService. The record is derived
// from scratch out of the full completed-session list every time, never
// incremented, so repeated calls converge on the same row.
func (a *AttendanceServiceImpl) Aggregate(ctx context.Context, userID string, date time.Time) (attendance.DailyRecord, error) {
	l := a.lockFor(userID, date)
	l.Lock()
	defer l.Unlock()

	sessions, err := a.SessionRepository.ListCompletedByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to load sessions for aggregation: %w", err)
	}

	cfg, err := a.shiftService.Resolve(ctx, userID)
	if err != nil {
		if !errors.Is(err, shift.ErrNoShiftConfigured) {
			return attendance.DailyRecord{}, fmt.Errorf("failed to resolve shift: %w", err)
		}
		slog.Warn("no shift configured, using fallback",
			slog.String("user_id", userID),
			slog.String("date", date.Format("2006-01-02")),
		)
		cfg = shift.FallbackConfig()
	}

	rec := deriveRecord(userID, date, cfg, sessions, a.loc)

	saved, err := a.RecordRepository.Upsert(ctx, rec)
	if err != nil {
		return attendance.DailyRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	obs.ObserveAggregation()

	return saved, nil
}

// deriveRecord holds the whole derivation: totals, lateness, early checkout,
// overtime, percentage and status.
func deriveRecord(userID string, date time.Time, cfg shift.Config, sessions []session.Session, loc *time.Location) attendance.DailyRecord {
	rec := attendance.DailyRecord{
		UserID:   userID,
		Date:     date,
		Sessions: []attendance.SessionSummary{},
		Status:   attendance.StatusAbsent,
	}
	if cfg.ShiftID != "" {
		shiftID := cfg.ShiftID
		rec.ShiftID = &shiftID
	}

	if len(sessions) == 0 {
		return rec
	}

	for _, s := range sessions {
		summary := attendance.SessionSummary{
			SessionID: s.ID,
			ClockIn:   s.ClockIn.In(loc).Format(time.RFC3339),
			Notes:     s.Notes,
		}
		if s.ClockOut != nil {
			summary.ClockOut = s.ClockOut.In(loc).Format(time.RFC3339)
		}
		if s.TotalWorkMinutes != nil {
			summary.DurationMinutes = *s.TotalWorkMinutes
			rec.WorkMinutes += *s.TotalWorkMinutes
		}
		if s.TotalBreakMinutes != nil {
			summary.BreakMinutes = *s.TotalBreakMinutes
			rec.BreakMinutes += *s.TotalBreakMinutes
		}
		rec.Sessions = append(rec.Sessions, summary)
	}

	// Lateness is judged on the first clock-in of the day only.
	firstIn := shift.MinutesOfDay(sessions[0].ClockIn.In(loc))
	rec.IsLateCheckIn = firstIn > cfg.StartMinutes+cfg.GracePeriodMinutes

	expected := cfg.ExpectedWorkMinutes()
	duration := cfg.DurationMinutes()

	// May flip back to false as more sessions land for the day.
	rec.IsEarlyCheckOut = rec.WorkMinutes < expected

	if rec.WorkMinutes > duration {
		rec.IsOvertime = true
		rec.OvertimeMinutes = rec.WorkMinutes - duration
	}

	if expected > 0 {
		pct := int(math.Round(float64(rec.WorkMinutes) / float64(expected) * 100))
		if pct > 100 {
			pct = 100
		}
		rec.AttendancePercentage = pct
	}

	rec.Status = attendance.StatusForPercentage(rec.AttendancePercentage)

	return rec
}

// GetDailyRecord implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyRecord(ctx context.Context, userID string, date time.Time) (attendance.RecordResponse, error) {
	rec, err := a.RecordRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.ToResponse(rec), nil
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]attendance.RecordResponse, error) {
	records, err := a.RecordRepository.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
	}
	return responses, nil
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	sessionRepo session.SessionRepository,
	shiftService shift.ShiftService,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		RecordRepository:  recordRepo,
		SessionRepository: sessionRepo,
		shiftService:      shiftService,
		loc:               loc,
		locks:             make(map[string]*sync.Mutex),
	}
}
