package session

import (
	"context"
	"testing"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEmployee(id string) user.User {
	return user.User{ID: id, Role: user.RoleEmployee, IsActive: true}
}

func newLifecycleForTest(repo *fakeSessionRepo, agg *fakeAggregator, loc *time.Location, now time.Time) (session.LifecycleService, *time.Time) {
	clock := now
	svc := NewLifecycleService(
		repo,
		newFakeUserRepo(activeEmployee("user-1")),
		agg,
		loc,
		func() time.Time { return clock },
	)
	return svc, &clock
}

func TestClockIn(t *testing.T) {
	ctx := context.Background()

	t.Run("opens an active session on the org-local date", func(t *testing.T) {
		jakarta, err := time.LoadLocation("Asia/Jakarta")
		require.NoError(t, err)

		// 17:30 UTC is already 00:30 the next day in Jakarta.
		now := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, jakarta, now)

		resp, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, session.StatusActive, resp.Status)
		assert.Equal(t, "2025-03-11", resp.Date)
		assert.Nil(t, resp.ClockOut)
	})

	t.Run("rejects a second active session", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, now)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		_, err = svc.ClockIn(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrAlreadyActive)
	})

	t.Run("maps a store uniqueness conflict to already-active", func(t *testing.T) {
		// Simulates two racing clock-ins where the pre-check passed for both
		// but the partial unique index rejected the second insert.
		repo := newFakeSessionRepo()
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		svc, _ := newLifecycleForTest(repo, &fakeAggregator{}, time.UTC, now)

		_, err := repo.Create(ctx, session.Session{UserID: "user-1", Status: session.StatusActive, Date: now, ClockIn: now})
		require.NoError(t, err)

		repo.hideActive = true
		_, err = svc.ClockIn(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrAlreadyActive)
	})

	t.Run("unknown user", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, now)

		_, err := svc.ClockIn(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestBreaks(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("start and end a break", func(t *testing.T) {
		repo := newFakeSessionRepo()
		svc, clock := newLifecycleForTest(repo, &fakeAggregator{}, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		*clock = start.Add(3 * time.Hour)
		resp, err := svc.StartBreak(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, resp.Breaks, 1)
		assert.Nil(t, resp.Breaks[0].EndedAt)

		*clock = start.Add(3*time.Hour + 30*time.Minute)
		resp, err = svc.EndBreak(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, resp.Breaks, 1)
		require.NotNil(t, resp.Breaks[0].EndedAt)
		assert.False(t, resp.Breaks[0].AutoClosed)
	})

	t.Run("no nested breaks", func(t *testing.T) {
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)
		_, err = svc.StartBreak(ctx, "user-1")
		require.NoError(t, err)

		_, err = svc.StartBreak(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrBreakAlreadyOpen)
	})

	t.Run("end without open break", func(t *testing.T) {
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		_, err = svc.EndBreak(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrNoOpenBreak)
	})

	t.Run("break without active session", func(t *testing.T) {
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, start)

		_, err := svc.StartBreak(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrNoActiveSession)
	})
}

func TestClockOut(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("completes session and aggregates the day", func(t *testing.T) {
		repo := newFakeSessionRepo()
		agg := &fakeAggregator{}
		svc, clock := newLifecycleForTest(repo, agg, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		*clock = start.Add(8 * time.Hour)
		resp, err := svc.ClockOut(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, session.StatusCompleted, resp.Status)
		require.NotNil(t, resp.TotalWorkMinutes)
		assert.Equal(t, 480, *resp.TotalWorkMinutes)
		require.NotNil(t, resp.TotalBreakMinutes)
		assert.Equal(t, 0, *resp.TotalBreakMinutes)

		require.Equal(t, 1, agg.callCount())
		assert.Equal(t, "user-1|2025-03-10", agg.calls[0])
	})

	t.Run("auto-closes an open break", func(t *testing.T) {
		repo := newFakeSessionRepo()
		svc, clock := newLifecycleForTest(repo, &fakeAggregator{}, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		*clock = start.Add(3 * time.Hour)
		_, err = svc.StartBreak(ctx, "user-1")
		require.NoError(t, err)

		*clock = start.Add(4 * time.Hour)
		resp, err := svc.ClockOut(ctx, "user-1")
		require.NoError(t, err)

		require.Len(t, resp.Breaks, 1)
		require.NotNil(t, resp.Breaks[0].EndedAt)
		assert.True(t, resp.Breaks[0].AutoClosed)
		require.NotNil(t, resp.TotalWorkMinutes)
		assert.Equal(t, 180, *resp.TotalWorkMinutes)
		assert.Equal(t, 60, *resp.TotalBreakMinutes)
	})

	t.Run("losing the completion race is a no-op", func(t *testing.T) {
		repo := newFakeSessionRepo()
		agg := &fakeAggregator{}
		svc, clock := newLifecycleForTest(repo, agg, time.UTC, start)

		_, err := svc.ClockIn(ctx, "user-1")
		require.NoError(t, err)

		// The sweep closes the session between our read and our guarded
		// write; the loser returns the winner's state without aggregating
		// a second time.
		sweepAt := start.Add(time.Hour)
		repo.sweepCloseAt = &sweepAt

		*clock = start.Add(8 * time.Hour)
		resp, err := svc.ClockOut(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, session.StatusCompleted, resp.Status)
		require.NotNil(t, resp.ClockOut)
		assert.Equal(t, sweepAt.Format(time.RFC3339), *resp.ClockOut)
		require.NotNil(t, resp.TotalWorkMinutes)
		assert.Equal(t, 60, *resp.TotalWorkMinutes)
		assert.Zero(t, agg.callCount())
	})

	t.Run("without active session", func(t *testing.T) {
		svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, start)

		_, err := svc.ClockOut(ctx, "user-1")
		assert.ErrorIs(t, err, session.ErrNoActiveSession)
	})
}

func TestGetActiveSession(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newLifecycleForTest(newFakeSessionRepo(), &fakeAggregator{}, time.UTC, start)

	resp, err := svc.GetActiveSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = svc.ClockIn(ctx, "user-1")
	require.NoError(t, err)

	resp, err = svc.GetActiveSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, session.StatusActive, resp.Status)
}
