package scheduleconfig

import "errors"

var (
	// ErrConfigNotFound возвращается, когда бизнес еще не сохранял конфигурацию
	ErrConfigNotFound = errors.New("scheduleconfig.repository: config not found")

	// ErrNoTransaction возвращается, когда операция требует транзакции в контексте
	ErrNoTransaction = errors.New("scheduleconfig.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("scheduleconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("scheduleconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("scheduleconfig.repository: failed to scan row")

	// ErrInvalidWeekday возвращается, если в базе день недели вне 0..6
	ErrInvalidWeekday = errors.New("scheduleconfig.repository: invalid weekday")
)
