package reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, expected domain.ReservationStatus, reason *string) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
}

// Notifier интерфейс отправки уведомлений о смене статуса
type Notifier interface {
	ReservationStatusChanged(ctx context.Context, res *domain.Reservation, previous domain.ReservationStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
