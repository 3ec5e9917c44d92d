package create_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ServiceID int64           `json:"serviceId"`
	StaffID   int64           `json:"staffId"`
	Date      string          `json:"date"`      // "2025-10-15"
	StartTime string          `json:"startTime"` // "10:00"
	Customer  CustomerRequest `json:"customer"`
	Notes     *string         `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID, businessID int64) (*createReservation.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:     userID,
		BusinessID: businessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
		Customer: createReservation.Customer{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Notes: r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *models.ReservationResponse {
	return models.FromDomainReservation(resp.Reservation)
}
