package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.ServiceID < 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Длительность берется из услуги, если она указана
	if req.ServiceID == 0 {
		if err := validateDuration(req.DurationMinutes); err != nil {
			return err
		}
	}

	return nil
}

func validateDuration(minutes int) error {
	if minutes < domain.MinServiceDurationMinutes || minutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	return nil
}
