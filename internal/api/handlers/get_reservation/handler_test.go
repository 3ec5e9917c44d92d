package get_reservation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id, userID int64) (*models.ReservationResponse, error) {
	args := m.Called(ctx, id, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.ReservationResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/reservations/{reservationId}", middleware.Auth(http.HandlerFunc(h.Handle)))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.UserIDHeader, "100")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, int64(10), int64(100)).
		Return(&models.ReservationResponse{ID: 10, Status: "confirmed"}, nil)

	rec := serve(NewHandler(svc, logger.NewNop()), "/api/v1/reservations/10")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(10), body.ID)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{"invalid id", "/api/v1/reservations/abc", nil, http.StatusBadRequest},
		{"not found", "/api/v1/reservations/10", reservations.ErrReservationNotFound, http.StatusNotFound},
		{"forbidden", "/api/v1/reservations/10", reservations.ErrAccessDenied, http.StatusForbidden},
		{"internal", "/api/v1/reservations/10", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("GetByID", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := serve(NewHandler(svc, logger.NewNop()), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
