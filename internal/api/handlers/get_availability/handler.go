package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidParams      = "некорректные параметры запроса: нужны date и serviceId или durationMinutes"
	msgStaffNotFound      = "сотрудник не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgStaffIneligible    = "сотрудник не оказывает эту услугу"
	msgInvalidRequest     = "некорректный запрос доступности"
	msgAvailabilityFailed = "не удалось получить доступные слоты"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/staff/{staffId}/availability
// Query params: date, serviceId или durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	ucReq, err := ToUseCaseRequest(businessID, staffID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrStaffNotFound):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Staff not found: business_id=%d, staff_id=%d",
				businessID, staffID)
			handlers.RespondDomainError(w, err, msgStaffNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Service not found: business_id=%d, service_id=%d",
				businessID, ucReq.ServiceID)
			handlers.RespondDomainError(w, err, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrServiceInactive):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Service inactive: service_id=%d", ucReq.ServiceID)
			handlers.RespondDomainError(w, err, msgServiceInactive)

		case errors.Is(err, getAvailability.ErrStaffIneligible):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Staff ineligible: staff_id=%d, service_id=%d",
				staffID, ucReq.ServiceID)
			handlers.RespondDomainError(w, err, msgStaffIneligible)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/availability - Invalid input: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/staff/{id}/availability - Failed to get availability: business_id=%d, staff_id=%d, error=%v",
				businessID, staffID, err)
			handlers.RespondDomainError(w, err, msgAvailabilityFailed)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/staff/{id}/availability - Availability retrieved: business_id=%d, staff_id=%d, date=%s, slots=%d",
		businessID, staffID, resp.Date, len(resp.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
