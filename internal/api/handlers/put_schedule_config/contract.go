package put_schedule_config

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig/models"
)

type ScheduleConfigService interface {
	Put(ctx context.Context, businessID, userID int64, patch *models.PatchRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
