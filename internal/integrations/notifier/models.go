package notifier

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// EventType тип события бронирования
type EventType string

const (
	EventReservationCreated       EventType = "reservation.created"
	EventReservationStatusChanged EventType = "reservation.status_changed"
)

// Event событие, отправляемое в сервис уведомлений
type Event struct {
	Type           EventType `json:"type"`
	ReservationID  int64     `json:"reservationId"`
	BusinessID     int64     `json:"businessId"`
	StaffID        int64     `json:"staffId"`
	ServiceID      int64     `json:"serviceId"`
	CustomerUserID int64     `json:"customerUserId"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  *string   `json:"customerEmail,omitempty"`
	CustomerPhone  *string   `json:"customerPhone,omitempty"`
	Date           string    `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func newEvent(eventType EventType, res *domain.Reservation, occurredAt time.Time) Event {
	return Event{
		Type:           eventType,
		ReservationID:  res.ID,
		BusinessID:     res.BusinessID,
		StaffID:        res.StaffID,
		ServiceID:      res.ServiceID,
		CustomerUserID: res.Customer.UserID,
		CustomerName:   res.Customer.Name,
		CustomerEmail:  res.Customer.Email,
		CustomerPhone:  res.Customer.Phone,
		Date:           res.Date.String(),
		StartTime:      res.StartTime.String(),
		EndTime:        res.EndTime.String(),
		Status:         string(res.Status),
		OccurredAt:     occurredAt,
	}
}
