package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrEmptyBody возвращается DecodeJSON для запроса без тела
var ErrEmptyBody = errors.New("handlers: empty request body")

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RespondJSON пишет JSON с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку, вид выводится из HTTP статуса
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Kind:    kindForStatus(status),
		Message: message,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError выбирает статус по виду доменной ошибки.
// Для внутренних ошибок message заменяется общим текстом.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	kind := domain.KindOf(err)
	status := StatusForKind(kind)
	if kind == domain.KindInternal {
		message = msgInternalError
	}
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Kind:    string(kind),
		Message: message,
	})
}

// StatusForKind HTTP статус для вида ошибки
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindIneligible, domain.KindOutOfWindow:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domain.KindValidation)
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return string(domain.KindForbidden)
	case http.StatusNotFound:
		return string(domain.KindNotFound)
	case http.StatusConflict:
		return string(domain.KindConflict)
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return string(domain.KindInternal)
	}
}

// DecodeJSON читает тело запроса в v, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("handlers: decode body: %w", err)
	}
	return nil
}
