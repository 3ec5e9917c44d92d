package catalog

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден в каталоге
	ErrBusinessNotFound = errors.New("catalog: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в бизнесе
	ErrStaffNotFound = errors.New("catalog: staff not found")

	// ErrInvalidResponse возвращается при неожиданном ответе каталога
	ErrInvalidResponse = errors.New("catalog: invalid response")

	// ErrInternal возвращается при ошибках выполнения запроса
	ErrInternal = errors.New("catalog: internal error")
)
