package domain

import "github.com/m04kA/SMC-ReservationService/pkg/types"

// AvailableSlot represents a candidate start time and whether it can be booked
type AvailableSlot struct {
	StartTime types.TimeString
	Available bool
}
