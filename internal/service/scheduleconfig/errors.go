package scheduleconfig

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("scheduleconfig: business %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не является менеджером бизнеса
	ErrAccessDenied = fmt.Errorf("scheduleconfig: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректной конфигурации после применения изменений
	ErrInvalidInput = fmt.Errorf("scheduleconfig: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("scheduleconfig: internal error")
)
