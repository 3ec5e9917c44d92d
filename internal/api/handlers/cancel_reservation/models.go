package cancel_reservation

import "github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"

// CancelRequest HTTP request model, тело необязательно
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelRequest) ToServiceRequest(userID int64) *models.CancelRequest {
	return &models.CancelRequest{
		UserID: userID,
		Reason: r.Reason,
	}
}
