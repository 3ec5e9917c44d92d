package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("create_reservation: business %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("create_reservation: service %w", domain.ErrNotFound)

	// ErrStaffNotFound возвращается, когда сотрудник не найден в бизнесе
	ErrStaffNotFound = fmt.Errorf("create_reservation: staff %w", domain.ErrNotFound)

	// ErrBusinessInactive возвращается, когда бизнес не принимает записи
	ErrBusinessInactive = fmt.Errorf("create_reservation: business is not accepting reservations: %w", domain.ErrIneligible)

	// ErrServiceInactive возвращается, когда услуга снята с записи
	ErrServiceInactive = fmt.Errorf("create_reservation: service is not bookable: %w", domain.ErrIneligible)

	// ErrStaffIneligible возвращается, когда сотрудник не оказывает услугу
	ErrStaffIneligible = fmt.Errorf("create_reservation: staff does not perform the service: %w", domain.ErrIneligible)

	// ErrDateOutOfRange возвращается для прошедшей даты или даты за горизонтом бронирования
	ErrDateOutOfRange = fmt.Errorf("create_reservation: date is outside the booking horizon: %w", domain.ErrOutOfWindow)

	// ErrBusinessClosed возвращается для выходного дня или даты из blackout
	ErrBusinessClosed = fmt.Errorf("create_reservation: business is closed on this date: %w", domain.ErrOutOfWindow)

	// ErrOutsideWorkingHours возвращается, когда запись не помещается в рабочие часы
	ErrOutsideWorkingHours = fmt.Errorf("create_reservation: outside working hours: %w", domain.ErrOutOfWindow)

	// ErrOffGrid возвращается, когда время начала не совпадает с сеткой слотов
	ErrOffGrid = fmt.Errorf("create_reservation: start time is not on the slot grid: %w", domain.ErrOutOfWindow)

	// ErrTooLateToBook возвращается, когда нарушен lead time
	ErrTooLateToBook = fmt.Errorf("create_reservation: too late to book this slot: %w", domain.ErrOutOfWindow)

	// ErrSlotTaken возвращается, когда интервал занят другим бронированием
	ErrSlotTaken = fmt.Errorf("create_reservation: slot is already taken: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_reservation: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
