package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса уведомлений
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrServiceDegraded возвращается, когда сервис уведомлений недоступен.
	// Бронирование при этом остается в силе.
	ErrServiceDegraded = errors.New("notifier unavailable: graceful degradation applied")
)
