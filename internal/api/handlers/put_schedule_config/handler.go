package put_schedule_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig"
	"github.com/m04kA/SMC-ReservationService/internal/service/scheduleconfig/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidConfig     = "некорректные настройки расписания"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "менять настройки может только менеджер бизнеса"
	msgFailed            = "не удалось сохранить настройки расписания"
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

// Handle PUT /api/v1/businesses/{businessId}/schedule-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule-config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/schedule-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var patch models.PatchRequest
	if err := handlers.DecodeJSON(r, &patch); err != nil {
		h.logger.Warn("PUT /businesses/{id}/schedule-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Put(r.Context(), businessID, userID, &patch)
	if err != nil {
		switch {
		case errors.Is(err, scheduleconfig.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/schedule-config - Invalid config: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, scheduleconfig.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/schedule-config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, scheduleconfig.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/schedule-config - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/schedule-config - Failed to save config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondDomainError(w, err, msgFailed)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/schedule-config - Config saved: business_id=%d, user_id=%d", businessID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
