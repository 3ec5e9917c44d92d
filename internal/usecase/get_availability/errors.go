package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден в бизнесе
	ErrStaffNotFound = fmt.Errorf("get_availability: staff %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("get_availability: service %w", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга снята с записи
	ErrServiceInactive = fmt.Errorf("get_availability: service is not bookable: %w", domain.ErrIneligible)

	// ErrStaffIneligible возвращается, когда сотрудник не оказывает услугу
	ErrStaffIneligible = fmt.Errorf("get_availability: staff does not perform the service: %w", domain.ErrIneligible)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_availability: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
