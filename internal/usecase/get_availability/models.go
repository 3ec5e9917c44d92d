package get_availability

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса доступности сотрудника на дату
type Request struct {
	BusinessID      int64      // ID бизнеса
	StaffID         int64      // ID сотрудника
	ServiceID       int64      // ID услуги (0 - длительность задана явно)
	DurationMinutes int        // Длительность записи, если услуга не указана
	Date            types.Date // Дата
}

// Response модель ответа со списком кандидатов
type Response struct {
	Date            types.Date
	BusinessID      int64
	StaffID         int64
	ServiceID       int64
	DurationMinutes int
	Slots           []domain.AvailableSlot // по возрастанию времени, пустой для закрытого дня
}

const (
	resultSlots      = "slots"
	resultClosed     = "closed"
	resultOutOfRange = "out_of_range"
	resultInvalid    = "invalid"
	resultNotFound   = "not_found"
	resultIneligible = "ineligible"
	resultError      = "error"
)
