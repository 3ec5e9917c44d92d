package domain

import "errors"

// Виды ошибок, различимые клиентом.
// Ошибки слоев usecase/service оборачивают один из них.
var (
	// ErrValidation отсутствует или некорректно обязательное поле
	ErrValidation = errors.New("validation error")

	// ErrNotFound не найдена бизнес-сущность (бизнес, услуга, сотрудник, бронирование)
	ErrNotFound = errors.New("not found")

	// ErrIneligible сотрудник не оказывает запрошенную услугу
	ErrIneligible = errors.New("ineligible")

	// ErrOutOfWindow время вне рабочих часов, в закрытый день или раньше lead time
	ErrOutOfWindow = errors.New("out of window")

	// ErrConflict слот занят конкурентным бронированием
	ErrConflict = errors.New("conflict")

	// ErrAccessDenied у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")
)

// ErrorKind код вида ошибки для внешних клиентов
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation_error"
	KindNotFound    ErrorKind = "not_found"
	KindIneligible  ErrorKind = "ineligible"
	KindOutOfWindow ErrorKind = "out_of_window"
	KindConflict    ErrorKind = "conflict"
	KindForbidden   ErrorKind = "forbidden"
	KindInternal    ErrorKind = "internal"
)

// KindOf определяет вид ошибки по цепочке обёрток
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrIneligible):
		return KindIneligible
	case errors.Is(err, ErrOutOfWindow):
		return KindOutOfWindow
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrAccessDenied):
		return KindForbidden
	default:
		return KindInternal
	}
}
