package scheduleconfig

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	// LockBusiness сериализует изменения конфигурации одного бизнеса до конца транзакции
	LockBusiness(ctx context.Context, businessID int64) error
	Get(ctx context.Context, businessID int64) (*domain.BusinessScheduleConfig, error)
	Upsert(ctx context.Context, cfg *domain.BusinessScheduleConfig) (*domain.BusinessScheduleConfig, error)
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
