package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservations: reservation %w", domain.ErrNotFound)

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("reservations: business %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("reservations: %w", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reservations: %w", domain.ErrValidation)

	// ErrInvalidTransition возвращается, когда переход статуса не разрешен жизненным циклом
	ErrInvalidTransition = fmt.Errorf("reservations: status transition not allowed: %w", domain.ErrConflict)

	// ErrStatusChanged возвращается, когда статус изменился конкурентно
	ErrStatusChanged = fmt.Errorf("reservations: status changed concurrently: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
