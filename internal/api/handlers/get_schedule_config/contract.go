package get_schedule_config

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig/models"
)

type ScheduleConfigService interface {
	Get(ctx context.Context, businessID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
