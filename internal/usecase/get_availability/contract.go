package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// ListForStaffDay возвращает активные бронирования сотрудника на дату
	ListForStaffDay(ctx context.Context, staffID int64, date types.Date) ([]*domain.Reservation, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	Get(ctx context.Context, businessID int64) (*domain.BusinessScheduleConfig, error)
}

// CatalogClient интерфейс клиента каталога услуг и сотрудников
type CatalogClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error)
}

// MetricsRecorder интерфейс учета запросов доступности
type MetricsRecorder interface {
	RecordAvailability(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
