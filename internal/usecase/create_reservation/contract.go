package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// LockStaffDay берет транзакционную блокировку на пару (сотрудник, дата)
	LockStaffDay(ctx context.Context, staffID int64, date types.Date) error
	// ListForStaffDay возвращает активные бронирования сотрудника на дату (FOR UPDATE внутри транзакции)
	ListForStaffDay(ctx context.Context, staffID int64, date types.Date) ([]*domain.Reservation, error)
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// ConfigRepository интерфейс репозитория конфигурации расписания
type ConfigRepository interface {
	Get(ctx context.Context, businessID int64) (*domain.BusinessScheduleConfig, error)
}

// CatalogClient интерфейс клиента каталога.
// Для записи данные читаются в обход кэша.
type CatalogClient interface {
	GetBusinessFresh(ctx context.Context, businessID int64) (*domain.Business, error)
	GetServiceFresh(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaffFresh(ctx context.Context, businessID, staffID int64) (*domain.Staff, error)
}

// Notifier интерфейс отправки уведомлений о новых бронированиях
type Notifier interface {
	ReservationCreated(ctx context.Context, res *domain.Reservation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс учета исходов бронирования
type MetricsRecorder interface {
	RecordReservation(outcome string)
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
