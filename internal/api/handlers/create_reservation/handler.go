package create_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidDateTime   = "некорректный формат даты или времени (ожидается YYYY-MM-DD и HH:MM)"
	msgNotFound          = "бизнес, услуга или сотрудник не найдены"
	msgIneligible        = "запись на эту услугу к этому сотруднику недоступна"
	msgDateOutOfRange    = "дата вне доступного периода бронирования"
	msgClosed            = "в этот день бизнес не работает"
	msgOutsideHours      = "запись не помещается в рабочие часы"
	msgOffGrid           = "время начала не совпадает с сеткой слотов"
	msgTooLate           = "слишком поздно для записи на это время"
	msgSlotTaken         = "это время уже занято"
	msgValidation        = "некорректные данные бронирования"
	msgCreateFailed      = "не удалось создать бронирование"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /businesses/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(userID, businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/reservations - Invalid date/time format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, err, ucReq)
		return
	}

	h.logger.Info("POST /businesses/{id}/reservations - Reservation created: reservation_id=%d, business_id=%d, staff_id=%d, date=%s, start=%s",
		resp.Reservation.ID, businessID, ucReq.StaffID, ucReq.Date, ucReq.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, req *createReservation.Request) {
	switch {
	case errors.Is(err, createReservation.ErrSlotTaken):
		h.logger.Warn("POST /businesses/{id}/reservations - Slot taken: staff_id=%d, date=%s, start=%s",
			req.StaffID, req.Date, req.StartTime)
		handlers.RespondDomainError(w, err, msgSlotTaken)

	case errors.Is(err, createReservation.ErrDateOutOfRange):
		h.logger.Warn("POST /businesses/{id}/reservations - Date out of range: date=%s", req.Date)
		handlers.RespondDomainError(w, err, msgDateOutOfRange)

	case errors.Is(err, createReservation.ErrBusinessClosed):
		h.logger.Warn("POST /businesses/{id}/reservations - Business closed: business_id=%d, date=%s", req.BusinessID, req.Date)
		handlers.RespondDomainError(w, err, msgClosed)

	case errors.Is(err, createReservation.ErrOutsideWorkingHours):
		h.logger.Warn("POST /businesses/{id}/reservations - Outside working hours: date=%s, start=%s", req.Date, req.StartTime)
		handlers.RespondDomainError(w, err, msgOutsideHours)

	case errors.Is(err, createReservation.ErrOffGrid):
		h.logger.Warn("POST /businesses/{id}/reservations - Off-grid start: start=%s", req.StartTime)
		handlers.RespondDomainError(w, err, msgOffGrid)

	case errors.Is(err, createReservation.ErrTooLateToBook):
		h.logger.Warn("POST /businesses/{id}/reservations - Too late to book: date=%s, start=%s", req.Date, req.StartTime)
		handlers.RespondDomainError(w, err, msgTooLate)

	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("POST /businesses/{id}/reservations - Not found: %v", err)
		handlers.RespondDomainError(w, err, msgNotFound)

	case errors.Is(err, domain.ErrIneligible):
		h.logger.Warn("POST /businesses/{id}/reservations - Ineligible: %v", err)
		handlers.RespondDomainError(w, err, msgIneligible)

	case errors.Is(err, createReservation.ErrInvalidInput):
		h.logger.Warn("POST /businesses/{id}/reservations - Validation failed: %v", err)
		handlers.RespondDomainError(w, err, msgValidation)

	default:
		h.logger.Error("POST /businesses/{id}/reservations - Failed to create reservation: business_id=%d, error=%v",
			req.BusinessID, err)
		handlers.RespondDomainError(w, err, msgCreateFailed)
	}
}
