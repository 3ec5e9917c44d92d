package get_schedule_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
	msgFailed            = "не удалось получить настройки расписания"
)

type Handler struct {
	service ScheduleConfigService
	logger  Logger
}

func NewHandler(service ScheduleConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/schedule-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/schedule-config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, scheduleconfig.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/schedule-config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/schedule-config - Failed to get config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondDomainError(w, err, msgFailed)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/schedule-config - Config retrieved: business_id=%d, default=%t",
		businessID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
