package get_business_reservations

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var errDateAndRange = errors.New("date cannot be combined with from/to")

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, from/to - диапазон включительно.
func ToServiceRequest(businessID, userID int64, query url.Values) (*models.GetBusinessReservationsRequest, error) {
	req := &models.GetBusinessReservationsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if s := query.Get("staffId"); s != "" {
		staffID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}

	if s := query.Get("status"); s != "" {
		req.Status = &s
	}

	date, err := parseOptionalDate(query, "date")
	if err != nil {
		return nil, err
	}
	from, err := parseOptionalDate(query, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(query, "to")
	if err != nil {
		return nil, err
	}

	if date != nil {
		if from != nil || to != nil {
			return nil, errDateAndRange
		}
		req.StartDate = date
		req.EndDate = date
	} else {
		req.StartDate = from
		req.EndDate = to
	}

	if s := query.Get("includeCancelled"); s != "" {
		includeCancelled, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}

func parseOptionalDate(query url.Values, key string) (*types.Date, error) {
	s := query.Get(key)
	if s == "" {
		return nil, nil
	}
	date, err := types.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &date, nil
}
