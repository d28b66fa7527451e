package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler()

	var ran atomic.Int32
	s.AddJob("count", time.Hour, func(context.Context) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}

func TestSchedulerRejectsLateRegistration(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	s.Start()

	var ran atomic.Int32
	s.AddJob("late", time.Hour, func(context.Context) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Zero(t, ran.Load(), "jobs registered after Start must be ignored")
}

func TestSchedulerStartTwice(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var ran atomic.Int32
	s.AddJob("immediate", time.Hour, func(context.Context) error {
		ran.Add(1)
		return nil
	})

	s.Start()
	s.Start()

	// Each registered job runs once immediately; a second Start must not
	// spawn another runner.
	assert.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), ran.Load())
}
