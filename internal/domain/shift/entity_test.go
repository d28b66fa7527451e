package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDurationMinutes(t *testing.T) {
	t.Run("same-day shift", func(t *testing.T) {
		cfg := Config{StartMinutes: 9 * 60, EndMinutes: 18 * 60}
		assert.Equal(t, 540, cfg.DurationMinutes())
	})

	t.Run("overnight shift wraps across midnight", func(t *testing.T) {
		cfg := Config{StartMinutes: 22 * 60, EndMinutes: 6 * 60}
		assert.Equal(t, 480, cfg.DurationMinutes())
	})
}

func TestConfigExpectedWorkMinutes(t *testing.T) {
	t.Run("break allowance subtracted", func(t *testing.T) {
		cfg := Config{StartMinutes: 9 * 60, EndMinutes: 18 * 60, BreakAllowanceMinutes: 60}
		assert.Equal(t, 480, cfg.ExpectedWorkMinutes())
	})

	t.Run("floored at zero", func(t *testing.T) {
		cfg := Config{StartMinutes: 9 * 60, EndMinutes: 10 * 60, BreakAllowanceMinutes: 120}
		assert.Equal(t, 0, cfg.ExpectedWorkMinutes())
	})
}

func TestShiftConfig(t *testing.T) {
	s := Shift{
		ID:                    "shift-1",
		Name:                  "Day",
		StartTime:             time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:               time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC),
		GracePeriodMinutes:    10,
		BreakAllowanceMinutes: 60,
	}

	cfg := s.Config()
	assert.Equal(t, "shift-1", cfg.ShiftID)
	assert.Equal(t, 540, cfg.StartMinutes)
	assert.Equal(t, 1080, cfg.EndMinutes)
	assert.Equal(t, 10, cfg.GracePeriodMinutes)
	assert.Equal(t, 480, cfg.ExpectedWorkMinutes())
}

func TestMinutesOfDay(t *testing.T) {
	assert.Equal(t, 560, MinutesOfDay(time.Date(2025, 3, 10, 9, 20, 45, 0, time.UTC)))
	assert.Equal(t, 0, MinutesOfDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestFallbackConfig(t *testing.T) {
	cfg := FallbackConfig()
	assert.Empty(t, cfg.ShiftID)
	assert.Equal(t, 540, cfg.StartMinutes)
	assert.Equal(t, 1080, cfg.EndMinutes)
	assert.Equal(t, 0, cfg.GracePeriodMinutes)
	assert.Equal(t, 540, cfg.ExpectedWorkMinutes())
}
