package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса уведомлений.
// Уведомления отправляются после коммита и никогда не отменяют бронирование.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
	now        func() time.Time
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// ReservationCreated сообщает о новом бронировании
func (c *Client) ReservationCreated(ctx context.Context, res *domain.Reservation) error {
	return c.sendWithGracefulDegradation(ctx, newEvent(EventReservationCreated, res, c.now()))
}

// ReservationStatusChanged сообщает о смене статуса бронирования
func (c *Client) ReservationStatusChanged(ctx context.Context, res *domain.Reservation, previous domain.ReservationStatus) error {
	event := newEvent(EventReservationStatusChanged, res, c.now())
	event.PreviousStatus = string(previous)
	return c.sendWithGracefulDegradation(ctx, event)
}

// send отправляет событие в сервис уведомлений
func (c *Client) send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications/reservations", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// sendWithGracefulDegradation отправляет событие и при недоступности сервиса возвращает ErrServiceDegraded
func (c *Client) sendWithGracefulDegradation(ctx context.Context, event Event) error {
	if err := c.send(ctx, event); err != nil {
		c.log.Error("Notifier unavailable, applying graceful degradation for reservation id=%d event=%s: %v",
			event.ReservationID, event.Type, err)
		return fmt.Errorf("%w: reservation id=%d, error=%v", ErrServiceDegraded, event.ReservationID, err)
	}

	c.log.Info("Notifier: sent %s for reservation id=%d", event.Type, event.ReservationID)
	return nil
}

// Noop реализация для окружений без сервиса уведомлений
type Noop struct{}

// ReservationCreated ничего не делает
func (Noop) ReservationCreated(context.Context, *domain.Reservation) error {
	return nil
}

// ReservationStatusChanged ничего не делает
func (Noop) ReservationStatusChanged(context.Context, *domain.Reservation, domain.ReservationStatus) error {
	return nil
}
