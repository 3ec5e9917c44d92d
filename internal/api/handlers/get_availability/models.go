package get_availability

import (
	"errors"
	"net/url"
	"strconv"

	getAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	errMissingDate     = errors.New("date is required")
	errMissingDuration = errors.New("either serviceId or durationMinutes is required")
)

// SlotResponse кандидат времени начала
type SlotResponse struct {
	Time      string `json:"time"` // "10:00"
	Available bool   `json:"available"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string         `json:"date"`
	BusinessID      int64          `json:"businessId"`
	StaffID         int64          `json:"staffId"`
	ServiceID       *int64         `json:"serviceId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из параметров пути и query
// Query params: date (обязательно), serviceId или durationMinutes
func ToUseCaseRequest(businessID, staffID int64, query url.Values) (*getAvailability.Request, error) {
	dateStr := query.Get("date")
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailability.Request{
		BusinessID: businessID,
		StaffID:    staffID,
		Date:       date,
	}

	if s := query.Get("serviceId"); s != "" {
		req.ServiceID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
	}
	if s := query.Get("durationMinutes"); s != "" {
		req.DurationMinutes, err = strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
	}
	if req.ServiceID == 0 && req.DurationMinutes == 0 {
		return nil, errMissingDuration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:            resp.Date.String(),
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	if resp.ServiceID != 0 {
		serviceID := resp.ServiceID
		out.ServiceID = &serviceID
	}
	for _, slot := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Time:      slot.StartTime.String(),
			Available: slot.Available,
		})
	}
	return out
}
