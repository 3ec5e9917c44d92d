package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DaySchedule рабочие часы одного дня
type DaySchedule struct {
	Enabled bool
	Open    types.TimeString
	Close   types.TimeString
}

// Validate checks that open < close for an enabled day
func (d DaySchedule) Validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Open.IsZero() || d.Close.IsZero() {
		return fmt.Errorf("%w: open and close are required for an enabled day", ErrValidation)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("%w: open %s must be before close %s", ErrValidation, d.Open, d.Close)
	}
	return nil
}

// WeekSchedule расписание по дням недели, индекс - time.Weekday.
// У каждого дня недели всегда есть запись.
type WeekSchedule [7]DaySchedule

// Day returns the schedule for the weekday
func (w WeekSchedule) Day(day time.Weekday) DaySchedule {
	return w[day]
}

// BusinessScheduleConfig represents the booking calendar of a business
type BusinessScheduleConfig struct {
	BusinessID          int64
	SlotIntervalMinutes int // 0 = grid equals service duration
	LeadTimeMinutes     int
	AdvanceBookingDays  int // 0 = unlimited
	Days                WeekSchedule
	BlackoutDates       map[types.Date]struct{}
	DateOverrides       map[types.Date]DaySchedule
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// IsDefault true, если конфигурация не сохранена и синтезирована из значений по умолчанию
	IsDefault bool
}

// DefaultScheduleConfig returns the calendar used until the business stores its own:
// Mon-Fri 09:00-17:00, weekend closed, no lead time, no blackouts.
func DefaultScheduleConfig(businessID int64) *BusinessScheduleConfig {
	open := types.MustTimeString(DefaultOpenTime)
	closeAt := types.MustTimeString(DefaultCloseTime)

	var days WeekSchedule
	for _, day := range Weekdays {
		days[day] = DaySchedule{
			Enabled: day != time.Saturday && day != time.Sunday,
			Open:    open,
			Close:   closeAt,
		}
	}

	return &BusinessScheduleConfig{
		BusinessID:          businessID,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		LeadTimeMinutes:     DefaultLeadTimeMinutes,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
		Days:                days,
		BlackoutDates:       map[types.Date]struct{}{},
		DateOverrides:       map[types.Date]DaySchedule{},
		IsDefault:           true,
	}
}

// IsBlackout returns true if no bookings are accepted on the date
func (c *BusinessScheduleConfig) IsBlackout(date types.Date) bool {
	_, ok := c.BlackoutDates[date]
	return ok
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *BusinessScheduleConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SlotInterval returns the grid step for a service of the given duration
func (c *BusinessScheduleConfig) SlotInterval(durationMinutes int) int {
	if c.SlotIntervalMinutes > 0 {
		return c.SlotIntervalMinutes
	}
	return durationMinutes
}

// DayWindow эффективное расписание на конкретную дату
type DayWindow struct {
	Date            types.Date
	Enabled         bool
	Blackout        bool
	Override        bool
	Open            types.TimeString
	Close           types.TimeString
	LeadTimeMinutes int
}

// IsBookable returns true if the day can have slots at all
func (w DayWindow) IsBookable() bool {
	return w.Enabled && !w.Blackout
}

// Contains returns true if [start, start+duration) lies within the working hours
func (w DayWindow) Contains(start types.TimeString, durationMinutes int) bool {
	if !w.IsBookable() {
		return false
	}
	return !start.IsBefore(w.Open) && start.EndAfter(durationMinutes) <= w.Close.Minutes()
}

// ResolveDay resolves the schedule for a date: blackout, then date override, then weekday
func (c *BusinessScheduleConfig) ResolveDay(date types.Date) DayWindow {
	window := DayWindow{
		Date:            date,
		LeadTimeMinutes: c.LeadTimeMinutes,
	}

	if c.IsBlackout(date) {
		window.Blackout = true
		return window
	}

	day, ok := c.DateOverrides[date]
	if ok {
		window.Override = true
	} else {
		day = c.Days.Day(date.Weekday())
	}

	window.Enabled = day.Enabled
	window.Open = day.Open
	window.Close = day.Close
	return window
}

// Validate checks the whole configuration
func (c *BusinessScheduleConfig) Validate() error {
	if c.SlotIntervalMinutes != 0 &&
		(c.SlotIntervalMinutes < MinSlotIntervalMinutes || c.SlotIntervalMinutes > MaxSlotIntervalMinutes) {
		return fmt.Errorf("%w: slot interval must be 0 or between %d and %d minutes",
			ErrValidation, MinSlotIntervalMinutes, MaxSlotIntervalMinutes)
	}
	if c.LeadTimeMinutes < MinLeadTimeMinutes || c.LeadTimeMinutes > MaxLeadTimeMinutes {
		return fmt.Errorf("%w: lead time must be between %d and %d minutes",
			ErrValidation, MinLeadTimeMinutes, MaxLeadTimeMinutes)
	}
	if c.AdvanceBookingDays < MinAdvanceBookingDays || c.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advance booking days must be between %d and %d",
			ErrValidation, MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	for _, day := range Weekdays {
		if err := c.Days[day].Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	if len(c.BlackoutDates) > MaxBlackoutDates {
		return fmt.Errorf("%w: too many blackout dates", ErrValidation)
	}
	if len(c.DateOverrides) > MaxDateOverrides {
		return fmt.Errorf("%w: too many date overrides", ErrValidation)
	}
	for date, day := range c.DateOverrides {
		if err := day.Validate(); err != nil {
			return fmt.Errorf("override %s: %w", date, err)
		}
	}
	return nil
}

// WithinHorizon returns false for dates before today or beyond the advance booking limit
func (c *BusinessScheduleConfig) WithinHorizon(date, today types.Date) bool {
	if date.Before(today) {
		return false
	}
	return !c.HasAdvanceBookingLimit() || today.DaysUntil(date) <= c.AdvanceBookingDays
}
