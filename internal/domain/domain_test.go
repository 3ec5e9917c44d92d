package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestReservationStatus_Transitions(t *testing.T) {
	all := []ReservationStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	allowed := map[[2]ReservationStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				assert.Equal(t, allowed[[2]ReservationStatus{from, to}], from.CanTransitionTo(to))
			})
		}
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusCancelled.OccupiesSlot())
	assert.True(t, StatusCompleted.OccupiesSlot())
}

func TestParseReservationStatus(t *testing.T) {
	status, ok := ParseReservationStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, status)

	_, ok = ParseReservationStatus("no_show")
	assert.False(t, ok)
}

func TestDefaultScheduleConfig(t *testing.T) {
	cfg := DefaultScheduleConfig(42)

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsDefault)
	assert.Equal(t, int64(42), cfg.BusinessID)
	assert.Zero(t, cfg.LeadTimeMinutes)

	for _, day := range Weekdays {
		schedule := cfg.Days.Day(day)
		weekend := day == time.Saturday || day == time.Sunday
		assert.Equal(t, !weekend, schedule.Enabled, day.String())
		assert.Equal(t, "09:00", schedule.Open.String())
		assert.Equal(t, "17:00", schedule.Close.String())
	}
}

func TestResolveDay(t *testing.T) {
	monday := types.MustDate("2024-03-04")
	tuesday := monday.AddDays(1)
	saturday := monday.AddDays(5)

	cfg := DefaultScheduleConfig(1)
	cfg.LeadTimeMinutes = 30
	cfg.BlackoutDates[tuesday] = struct{}{}
	cfg.DateOverrides[tuesday] = DaySchedule{Enabled: true, Open: types.MustTimeString("10:00"), Close: types.MustTimeString("12:00")}
	cfg.DateOverrides[saturday] = DaySchedule{Enabled: true, Open: types.MustTimeString("10:00"), Close: types.MustTimeString("14:00")}

	t.Run("weekday schedule", func(t *testing.T) {
		w := cfg.ResolveDay(monday)
		assert.True(t, w.IsBookable())
		assert.False(t, w.Override)
		assert.Equal(t, "09:00", w.Open.String())
		assert.Equal(t, 30, w.LeadTimeMinutes)
	})

	t.Run("blackout wins over override", func(t *testing.T) {
		w := cfg.ResolveDay(tuesday)
		assert.True(t, w.Blackout)
		assert.False(t, w.IsBookable())
	})

	t.Run("override opens weekend", func(t *testing.T) {
		w := cfg.ResolveDay(saturday)
		assert.True(t, w.IsBookable())
		assert.True(t, w.Override)
		assert.Equal(t, "14:00", w.Close.String())
	})

	t.Run("disabled weekday", func(t *testing.T) {
		w := cfg.ResolveDay(saturday.AddDays(1))
		assert.False(t, w.IsBookable())
		assert.False(t, w.Blackout)
	})
}

func TestDayWindow_Contains(t *testing.T) {
	w := DefaultScheduleConfig(1).ResolveDay(types.MustDate("2024-03-04"))

	assert.True(t, w.Contains(types.MustTimeString("09:00"), 60))
	assert.True(t, w.Contains(types.MustTimeString("16:00"), 60))
	assert.False(t, w.Contains(types.MustTimeString("16:30"), 60))
	assert.False(t, w.Contains(types.MustTimeString("08:30"), 30))
}

func TestBusinessScheduleConfig_SlotInterval(t *testing.T) {
	cfg := DefaultScheduleConfig(1)
	assert.Equal(t, 45, cfg.SlotInterval(45))

	cfg.SlotIntervalMinutes = 15
	assert.Equal(t, 15, cfg.SlotInterval(45))
}

func TestBusinessScheduleConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *BusinessScheduleConfig)
	}{
		{name: "open after close", modify: func(c *BusinessScheduleConfig) {
			c.Days[time.Monday] = DaySchedule{Enabled: true, Open: types.MustTimeString("18:00"), Close: types.MustTimeString("09:00")}
		}},
		{name: "open equals close", modify: func(c *BusinessScheduleConfig) {
			c.Days[time.Monday] = DaySchedule{Enabled: true, Open: types.MustTimeString("09:00"), Close: types.MustTimeString("09:00")}
		}},
		{name: "interval too small", modify: func(c *BusinessScheduleConfig) { c.SlotIntervalMinutes = 1 }},
		{name: "negative lead time", modify: func(c *BusinessScheduleConfig) { c.LeadTimeMinutes = -1 }},
		{name: "advance too far", modify: func(c *BusinessScheduleConfig) { c.AdvanceBookingDays = 400 }},
		{name: "invalid override", modify: func(c *BusinessScheduleConfig) {
			c.DateOverrides[types.MustDate("2024-01-01")] = DaySchedule{Enabled: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScheduleConfig(1)
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrValidation)
		})
	}

	t.Run("disabled day ignores hours", func(t *testing.T) {
		cfg := DefaultScheduleConfig(1)
		cfg.Days[time.Sunday] = DaySchedule{Enabled: false}
		assert.NoError(t, cfg.Validate())
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("create: %w", ErrConflict)))
	assert.Equal(t, KindOutOfWindow, KindOf(fmt.Errorf("a: %w", fmt.Errorf("b: %w", ErrOutOfWindow))))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("cancel: %w", ErrAccessDenied)))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
}

func TestBusiness_IsManager(t *testing.T) {
	b := Business{ManagerIDs: []int64{5, 9}}
	assert.True(t, b.IsManager(9))
	assert.False(t, b.IsManager(1))

	s := Staff{ServiceIDs: []int64{3}}
	assert.True(t, s.CanPerform(3))
	assert.False(t, s.CanPerform(4))
}

func TestWithinHorizon(t *testing.T) {
	cfg := DefaultScheduleConfig(1)
	today := types.MustDate("2024-03-04")

	assert.False(t, cfg.WithinHorizon(types.MustDate("2024-03-03"), today))
	assert.True(t, cfg.WithinHorizon(today, today))
	assert.True(t, cfg.WithinHorizon(types.MustDate("2030-01-01"), today))

	cfg.AdvanceBookingDays = 7
	assert.True(t, cfg.WithinHorizon(types.MustDate("2024-03-11"), today))
	assert.False(t, cfg.WithinHorizon(types.MustDate("2024-03-12"), today))
}
