package cron

import (
	"context"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/config"
	"github.com/shiftlog/timekeeper-go/internal/service/recovery"
)

// RegisterRecoveryJobs wires the two recovery sweeps onto the scheduler. Both
// tick hourly and run only when the org-local hour matches their configured
// window; the hourly cadence means a missed window (restart, downtime) is
// retried within the hour rather than lost until the next day.
func RegisterRecoveryJobs(s *Scheduler, svc *recovery.RecoveryService, cfg config.SweepConfig, loc *time.Location) {
	s.AddJob("absence-sweep", time.Hour, func(ctx context.Context) error {
		if time.Now().In(loc).Hour() != cfg.AbsenceRunHour {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()

		_, err := svc.RunAbsenceSweep(ctx)
		return err
	})

	s.AddJob("stuck-session-sweep", time.Hour, func(ctx context.Context) error {
		if time.Now().In(loc).Hour() != cfg.StuckRunHour {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()

		_, err := svc.RunStuckSweep(ctx)
		return err
	})
}
