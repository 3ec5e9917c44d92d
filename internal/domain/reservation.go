package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// transitions допустимые переходы статусов. Completed и Cancelled терминальные.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseReservationStatus проверяет строку статуса
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch status := ReservationStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// CanTransitionTo returns true if the lifecycle allows moving from s to next
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transitions are possible from s
func (s ReservationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// OccupiesSlot returns true if a reservation in this status blocks its interval
func (s ReservationStatus) OccupiesSlot() bool {
	return s != StatusCancelled
}

// Customer контактные данные клиента на момент бронирования
type Customer struct {
	UserID int64
	Name   string
	Email  *string
	Phone  *string
}

// Reservation represents a booked appointment of one staff member
type Reservation struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ServiceID  int64
	Customer   Customer

	Date      types.Date
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    ReservationStatus

	// Snapshot of the service at creation time
	DurationMinutes int
	PriceMinorUnits int64
	ServiceName     string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartMinute returns the start of the reservation interval in minutes from midnight
func (r *Reservation) StartMinute() int {
	return r.StartTime.Minutes()
}

// EndMinute returns the exclusive end of the reservation interval in minutes from midnight
func (r *Reservation) EndMinute() int {
	if r.EndTime.IsZero() {
		return r.StartTime.EndAfter(r.DurationMinutes)
	}
	return r.EndTime.Minutes()
}

// IsActive returns true if the reservation still occupies its interval
func (r *Reservation) IsActive() bool {
	return r.Status.OccupiesSlot()
}

// CanBeCancelled returns true if the reservation can be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// ReservationsFilter фильтр для списка бронирований бизнеса
type ReservationsFilter struct {
	BusinessID       int64              // Обязательный параметр
	StaffID          *int64             // Фильтр по сотруднику
	StartDate        *types.Date        // Начало периода (включительно)
	EndDate          *types.Date        // Конец периода (включительно)
	Status           *ReservationStatus // Фильтр по статусу
	IncludeCancelled bool               // Включать ли отмененные
}
