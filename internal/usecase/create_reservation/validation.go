package create_reservation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	return validateCustomer(req)
}

func validateCustomer(req *Request) error {
	name := strings.TrimSpace(req.Customer.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Customer.Email != nil {
		if _, err := mail.ParseAddress(*req.Customer.Email); err != nil {
			return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
		}
	}

	if req.Customer.Phone != nil && strings.TrimSpace(*req.Customer.Phone) == "" {
		return fmt.Errorf("%w: customer phone must not be empty", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
