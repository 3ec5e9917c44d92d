package create_reservation

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Customer контактные данные клиента
type Customer struct {
	Name  string
	Email *string
	Phone *string
}

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID клиента из X-User-ID
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	StaffID    int64            // ID сотрудника
	Date       types.Date       // Дата записи
	StartTime  types.TimeString // Время начала (например, "10:00")
	Customer   Customer
	Notes      *string // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}

const (
	outcomeCreated     = "created"
	outcomeConflict    = "conflict"
	outcomeOutOfWindow = "out_of_window"
	outcomeIneligible  = "ineligible"
	outcomeNotFound    = "not_found"
	outcomeInvalid     = "invalid"
	outcomeError       = "error"
)

// outcomeOf сводит ошибку к метке метрики
func outcomeOf(err error) string {
	if err == nil {
		return outcomeCreated
	}
	switch domain.KindOf(err) {
	case domain.KindConflict:
		return outcomeConflict
	case domain.KindOutOfWindow:
		return outcomeOutOfWindow
	case domain.KindIneligible:
		return outcomeIneligible
	case domain.KindNotFound:
		return outcomeNotFound
	case domain.KindValidation:
		return outcomeInvalid
	default:
		return outcomeError
	}
}
