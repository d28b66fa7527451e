package session

import (
	"context"
	"testing"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/shiftlog/timekeeper-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManualForTest(repo *fakeSessionRepo, auditRepo *fakeAuditRepo, agg *fakeAggregator) *ManualEntryServiceImpl {
	return &ManualEntryServiceImpl{
		SessionRepository: repo,
		UserRepository:    newFakeUserRepo(activeEmployee("user-1"), user.User{ID: "mgr-1", Role: user.RoleManager, IsActive: true}),
		AuditRepository:   auditRepo,
		attendanceService: agg,
		tx:                passthroughTx,
	}
}

func managerActor() audit.Actor {
	return audit.Actor{
		UserID:    "mgr-1",
		Role:      string(user.RoleManager),
		IPAddress: "10.0.0.5",
		UserAgent: "backoffice/1.4",
	}
}

func TestCreateManualSession(t *testing.T) {
	ctx := context.Background()

	validReq := func() session.CreateManualSessionRequest {
		return session.CreateManualSessionRequest{
			UserID:   "user-1",
			Date:     "2025-03-10",
			ClockIn:  "2025-03-10T09:00:00Z",
			ClockOut: "2025-03-10T17:00:00Z",
			Reason:   "Forgot badge at the terminal",
			Actor:    managerActor(),
		}
	}

	t.Run("creates a completed session with audit entry", func(t *testing.T) {
		repo := newFakeSessionRepo()
		auditRepo := &fakeAuditRepo{}
		agg := &fakeAggregator{}
		svc := newManualForTest(repo, auditRepo, agg)

		resp, err := svc.CreateManualSession(ctx, validReq())
		require.NoError(t, err)

		assert.Equal(t, session.StatusCompleted, resp.Status)
		require.NotNil(t, resp.TotalWorkMinutes)
		assert.Equal(t, 480, *resp.TotalWorkMinutes)

		require.Len(t, auditRepo.entries, 1)
		entry := auditRepo.entries[0]
		assert.Equal(t, audit.ActionManualSessionCreate, entry.Action)
		assert.Equal(t, "mgr-1", entry.ActorID)
		assert.Equal(t, "user-1", entry.TargetUserID)
		assert.Equal(t, resp.ID, entry.EntityID)
		assert.Nil(t, entry.OldValues)
		require.NotNil(t, entry.NewValues)
		assert.Equal(t, "2025-03-10", entry.NewValues.Date)

		require.Equal(t, 1, agg.callCount())
		assert.Equal(t, "user-1|2025-03-10", agg.calls[0])
	})

	t.Run("rejects a date that already has a session", func(t *testing.T) {
		repo := newFakeSessionRepo()
		auditRepo := &fakeAuditRepo{}
		svc := newManualForTest(repo, auditRepo, &fakeAggregator{})

		_, err := svc.CreateManualSession(ctx, validReq())
		require.NoError(t, err)

		_, err = svc.CreateManualSession(ctx, validReq())
		assert.ErrorIs(t, err, session.ErrSessionExistsForDate)
		assert.Len(t, auditRepo.entries, 1)
	})

	t.Run("catches a duplicate created between validation and the transaction", func(t *testing.T) {
		repo := newFakeSessionRepo()
		auditRepo := &fakeAuditRepo{}
		agg := &fakeAggregator{}
		svc := newManualForTest(repo, auditRepo, agg)

		// Simulate a concurrent create that commits a session for the same
		// (user, date) just before our transaction body runs.
		svc.tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			date, _ := time.Parse("2006-01-02", "2025-03-10")
			clockOut := date.Add(16 * time.Hour)
			_, err := repo.Create(ctx, session.Session{
				UserID:   "user-1",
				Date:     date,
				ClockIn:  date.Add(8 * time.Hour),
				ClockOut: &clockOut,
				Status:   session.StatusCompleted,
			})
			require.NoError(t, err)
			return fn(ctx)
		}

		_, err := svc.CreateManualSession(ctx, validReq())
		assert.ErrorIs(t, err, session.ErrSessionExistsForDate)
		assert.Empty(t, auditRepo.entries)
		assert.Equal(t, 0, agg.callCount())
	})

	t.Run("rejects clock-out before clock-in", func(t *testing.T) {
		svc := newManualForTest(newFakeSessionRepo(), &fakeAuditRepo{}, &fakeAggregator{})

		req := validReq()
		req.ClockOut = "2025-03-10T08:00:00Z"

		_, err := svc.CreateManualSession(ctx, req)
		var validationErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &validationErrs)
	})

	t.Run("requires a reason", func(t *testing.T) {
		svc := newManualForTest(newFakeSessionRepo(), &fakeAuditRepo{}, &fakeAggregator{})

		req := validReq()
		req.Reason = ""

		_, err := svc.CreateManualSession(ctx, req)
		var validationErrs validator.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.ToMap(), "reason")
	})

	t.Run("unknown target user", func(t *testing.T) {
		svc := newManualForTest(newFakeSessionRepo(), &fakeAuditRepo{}, &fakeAggregator{})

		req := validReq()
		req.UserID = "nobody"

		_, err := svc.CreateManualSession(ctx, req)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestUpdateManualSession(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, repo *fakeSessionRepo) session.Session {
		t.Helper()
		clockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		clockOut := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
		work, brk := 450, 30
		s, err := repo.Create(ctx, session.Session{
			UserID:            "user-1",
			Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			ClockIn:           clockIn,
			ClockOut:          &clockOut,
			Status:            session.StatusCompleted,
			TotalWorkMinutes:  &work,
			TotalBreakMinutes: &brk,
		})
		require.NoError(t, err)

		breakEnd := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
		_, err = repo.AddBreak(ctx, session.Break{
			SessionID: s.ID,
			StartedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			EndedAt:   &breakEnd,
		})
		require.NoError(t, err)
		return s
	}

	t.Run("recomputes work minutes and preserves breaks", func(t *testing.T) {
		repo := newFakeSessionRepo()
		auditRepo := &fakeAuditRepo{}
		agg := &fakeAggregator{}
		svc := newManualForTest(repo, auditRepo, agg)
		seeded := seed(t, repo)

		newOut := "2025-03-10T18:00:00Z"
		resp, err := svc.UpdateManualSession(ctx, session.UpdateManualSessionRequest{
			ID:       seeded.ID,
			ClockOut: &newOut,
			Reason:   "Clock-out terminal was offline",
			Actor:    managerActor(),
		})
		require.NoError(t, err)

		// 9h span minus the 30-minute break.
		require.NotNil(t, resp.TotalWorkMinutes)
		assert.Equal(t, 510, *resp.TotalWorkMinutes)
		require.NotNil(t, resp.TotalBreakMinutes)
		assert.Equal(t, 30, *resp.TotalBreakMinutes)

		require.Len(t, auditRepo.entries, 1)
		entry := auditRepo.entries[0]
		assert.Equal(t, audit.ActionManualSessionUpdate, entry.Action)
		require.NotNil(t, entry.OldValues)
		require.NotNil(t, entry.NewValues)
		assert.NotEqual(t, entry.OldValues.ClockOut, entry.NewValues.ClockOut)

		assert.Equal(t, 1, agg.callCount())
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		repo := newFakeSessionRepo()
		svc := newManualForTest(repo, &fakeAuditRepo{}, &fakeAggregator{})
		seeded := seed(t, repo)

		newOut := "2025-03-10T08:00:00Z"
		_, err := svc.UpdateManualSession(ctx, session.UpdateManualSessionRequest{
			ID:       seeded.ID,
			ClockOut: &newOut,
			Reason:   "bad edit",
			Actor:    managerActor(),
		})
		assert.ErrorIs(t, err, session.ErrInvalidTimeRange)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := newManualForTest(newFakeSessionRepo(), &fakeAuditRepo{}, &fakeAggregator{})

		_, err := svc.UpdateManualSession(ctx, session.UpdateManualSessionRequest{
			ID:     "missing",
			Reason: "whatever",
			Actor:  managerActor(),
		})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestDeleteManualSession(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the session and records the old state", func(t *testing.T) {
		repo := newFakeSessionRepo()
		auditRepo := &fakeAuditRepo{}
		agg := &fakeAggregator{}
		svc := newManualForTest(repo, auditRepo, agg)

		clockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		clockOut := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
		work := 480
		seeded, err := repo.Create(ctx, session.Session{
			UserID:           "user-1",
			Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			ClockIn:          clockIn,
			ClockOut:         &clockOut,
			Status:           session.StatusCompleted,
			TotalWorkMinutes: &work,
		})
		require.NoError(t, err)

		err = svc.DeleteManualSession(ctx, session.DeleteManualSessionRequest{
			ID:     seeded.ID,
			Reason: "Duplicate of a corrected entry",
			Actor:  managerActor(),
		})
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, seeded.ID)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		require.Len(t, auditRepo.entries, 1)
		entry := auditRepo.entries[0]
		assert.Equal(t, audit.ActionManualSessionDelete, entry.Action)
		require.NotNil(t, entry.OldValues)
		assert.Nil(t, entry.NewValues)

		// Deletion re-derives the now session-less day.
		assert.Equal(t, 1, agg.callCount())
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := newManualForTest(newFakeSessionRepo(), &fakeAuditRepo{}, &fakeAggregator{})

		err := svc.DeleteManualSession(ctx, session.DeleteManualSessionRequest{
			ID:     "missing",
			Reason: "whatever",
			Actor:  managerActor(),
		})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}
