package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модели

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetCustomerReservationsRequest запрос на получение бронирований клиента
type GetCustomerReservationsRequest struct {
	RequesterID int64   `json:"requesterId"` // кто запрашивает
	CustomerID  int64   `json:"customerId"`  // чьи бронирования
	Status      *string `json:"status,omitempty"`
}

// GetBusinessReservationsRequest запрос на получение бронирований бизнеса
type GetBusinessReservationsRequest struct {
	UserID           int64       `json:"userId"`
	BusinessID       int64       `json:"businessId"`
	StaffID          *int64      `json:"staffId,omitempty"`
	StartDate        *types.Date `json:"startDate,omitempty"`
	EndDate          *types.Date `json:"endDate,omitempty"`
	Status           *string     `json:"status,omitempty"`
	IncludeCancelled bool        `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		BusinessID:       r.BusinessID,
		StaffID:          r.StaffID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, ok := domain.ParseReservationStatus(*r.Status)
		if !ok {
			return filter, domain.ErrValidation
		}
		filter.Status = &status
		if status == domain.StatusCancelled {
			filter.IncludeCancelled = true
		}
	}

	return filter, nil
}

// Response модели

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	UserID int64   `json:"userId"`
	Name   string  `json:"name"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64            `json:"id"`
	BusinessID      int64            `json:"businessId"`
	StaffID         int64            `json:"staffId"`
	ServiceID       int64            `json:"serviceId"`
	Customer        CustomerResponse `json:"customer"`
	Date            string           `json:"date"`      // "2025-10-15"
	StartTime       string           `json:"startTime"` // "10:00"
	EndTime         string           `json:"endTime"`   // "11:00"
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`

	// Данные услуги на момент бронирования
	ServiceName     string  `json:"serviceName"`
	PriceMinorUnits int64   `json:"priceMinorUnits"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:         r.ID,
		BusinessID: r.BusinessID,
		StaffID:    r.StaffID,
		ServiceID:  r.ServiceID,
		Customer: CustomerResponse{
			UserID: r.Customer.UserID,
			Name:   r.Customer.Name,
			Email:  r.Customer.Email,
			Phone:  r.Customer.Phone,
		},
		Date:               r.Date.String(),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		DurationMinutes:    r.DurationMinutes,
		Status:             string(r.Status),
		ServiceName:        r.ServiceName,
		PriceMinorUnits:    r.PriceMinorUnits,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelled := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}
	return resp
}
