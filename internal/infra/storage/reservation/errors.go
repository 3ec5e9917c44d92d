package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotConflict возвращается, когда база отклонила запись из-за пересечения с активным бронированием
	ErrSlotConflict = errors.New("reservation.repository: slot already reserved")

	// ErrStatusChanged возвращается, когда статус изменился конкурентно и условное обновление не применилось
	ErrStatusChanged = errors.New("reservation.repository: status changed concurrently")

	// ErrNoTransaction возвращается, когда операция требует транзакции в контексте
	ErrNoTransaction = errors.New("reservation.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
