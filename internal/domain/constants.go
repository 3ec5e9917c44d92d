package domain

import "time"

// Default configuration values
const (
	DefaultSlotIntervalMinutes = 0 // 0 = grid equals service duration
	DefaultLeadTimeMinutes     = 0
	DefaultAdvanceBookingDays  = 0 // 0 = unlimited
)

// Default working day
const (
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "17:00"
)

// Business validation constants
const (
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 480 // 8 hours
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 720 // 12 hours
	MinLeadTimeMinutes          = 0
	MaxLeadTimeMinutes          = 10080 // 1 week
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxBlackoutDates            = 366
	MaxDateOverrides            = 366
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Weekdays порядок дней недели для вывода расписания (с понедельника)
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// ActiveStatuses статусы, при которых бронирование занимает интервал
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
