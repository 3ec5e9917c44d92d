package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DayRequest изменение расписания одного дня. Отсутствующие поля не меняются.
type DayRequest struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Open    *string `json:"open,omitempty"`  // "09:00"
	Close   *string `json:"close,omitempty"` // "17:00"
}

// PatchRequest частичное обновление конфигурации расписания.
// BlackoutDates и DateOverrides, если переданы, полностью заменяют сохраненные наборы.
type PatchRequest struct {
	SlotIntervalMinutes *int                   `json:"slotIntervalMinutes,omitempty"`
	LeadTimeMinutes     *int                   `json:"leadTimeMinutes,omitempty"`
	AdvanceBookingDays  *int                   `json:"advanceBookingDays,omitempty"`
	Days                map[string]DayRequest  `json:"days,omitempty"` // ключ - "monday".."sunday"
	BlackoutDates       *[]string              `json:"blackoutDates,omitempty"`
	DateOverrides       *map[string]DayRequest `json:"dateOverrides,omitempty"`
}

// DayResponse расписание дня в ответе
type DayResponse struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
}

// ConfigResponse конфигурация расписания бизнеса
type ConfigResponse struct {
	BusinessID          int64                  `json:"businessId"`
	SlotIntervalMinutes int                    `json:"slotIntervalMinutes"`
	LeadTimeMinutes     int                    `json:"leadTimeMinutes"`
	AdvanceBookingDays  int                    `json:"advanceBookingDays"`
	Days                map[string]DayResponse `json:"days"`
	BlackoutDates       []string               `json:"blackoutDates"`
	DateOverrides       map[string]DayResponse `json:"dateOverrides"`
	IsDefault           bool                   `json:"isDefault"`
	UpdatedAt           *time.Time             `json:"updatedAt,omitempty"`
}

// ParseWeekday разбирает имя дня недели без учета регистра
func ParseWeekday(name string) (time.Weekday, bool) {
	for _, day := range domain.Weekdays {
		if strings.EqualFold(day.String(), name) {
			return day, true
		}
	}
	return time.Sunday, false
}

// Apply применяет изменения к конфигурации. Итоговая конфигурация не валидируется.
func (p *PatchRequest) Apply(cfg *domain.BusinessScheduleConfig) error {
	if p.SlotIntervalMinutes != nil {
		cfg.SlotIntervalMinutes = *p.SlotIntervalMinutes
	}
	if p.LeadTimeMinutes != nil {
		cfg.LeadTimeMinutes = *p.LeadTimeMinutes
	}
	if p.AdvanceBookingDays != nil {
		cfg.AdvanceBookingDays = *p.AdvanceBookingDays
	}

	for name, change := range p.Days {
		weekday, ok := ParseWeekday(name)
		if !ok {
			return fmt.Errorf("%w: unknown weekday %q", domain.ErrValidation, name)
		}
		day, err := change.applyTo(cfg.Days[weekday])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		cfg.Days[weekday] = day
	}

	if p.BlackoutDates != nil {
		blackouts := make(map[types.Date]struct{}, len(*p.BlackoutDates))
		for _, raw := range *p.BlackoutDates {
			date, err := types.ParseDate(raw)
			if err != nil {
				return fmt.Errorf("%w: blackout date: %v", domain.ErrValidation, err)
			}
			blackouts[date] = struct{}{}
		}
		cfg.BlackoutDates = blackouts
	}

	if p.DateOverrides != nil {
		overrides := make(map[types.Date]domain.DaySchedule, len(*p.DateOverrides))
		for raw, change := range *p.DateOverrides {
			date, err := types.ParseDate(raw)
			if err != nil {
				return fmt.Errorf("%w: override date: %v", domain.ErrValidation, err)
			}
			// Переопределение без enabled закрывает день
			day, err := change.applyTo(domain.DaySchedule{})
			if err != nil {
				return fmt.Errorf("override %s: %w", raw, err)
			}
			overrides[date] = day
		}
		cfg.DateOverrides = overrides
	}

	return nil
}

func (d DayRequest) applyTo(day domain.DaySchedule) (domain.DaySchedule, error) {
	if d.Enabled != nil {
		day.Enabled = *d.Enabled
	}
	if d.Open != nil {
		open, err := types.NewTimeStringFromString(*d.Open)
		if err != nil {
			return day, fmt.Errorf("%w: open: %v", domain.ErrValidation, err)
		}
		day.Open = open
	}
	if d.Close != nil {
		closeAt, err := types.NewTimeStringFromString(*d.Close)
		if err != nil {
			return day, fmt.Errorf("%w: close: %v", domain.ErrValidation, err)
		}
		day.Close = closeAt
	}
	return day, nil
}

// FromDomainConfig конвертирует domain конфигурацию в response
func FromDomainConfig(cfg *domain.BusinessScheduleConfig) *ConfigResponse {
	resp := &ConfigResponse{
		BusinessID:          cfg.BusinessID,
		SlotIntervalMinutes: cfg.SlotIntervalMinutes,
		LeadTimeMinutes:     cfg.LeadTimeMinutes,
		AdvanceBookingDays:  cfg.AdvanceBookingDays,
		Days:                make(map[string]DayResponse, len(domain.Weekdays)),
		BlackoutDates:       make([]string, 0, len(cfg.BlackoutDates)),
		DateOverrides:       make(map[string]DayResponse, len(cfg.DateOverrides)),
		IsDefault:           cfg.IsDefault,
	}

	for _, weekday := range domain.Weekdays {
		resp.Days[strings.ToLower(weekday.String())] = fromDomainDay(cfg.Days[weekday])
	}
	for date := range cfg.BlackoutDates {
		resp.BlackoutDates = append(resp.BlackoutDates, date.String())
	}
	// "YYYY-MM-DD" сортируется лексикографически
	sort.Strings(resp.BlackoutDates)
	for date, day := range cfg.DateOverrides {
		resp.DateOverrides[date.String()] = fromDomainDay(day)
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

func fromDomainDay(day domain.DaySchedule) DayResponse {
	resp := DayResponse{Enabled: day.Enabled}
	if !day.Open.IsZero() {
		resp.Open = day.Open.String()
	}
	if !day.Close.IsZero() {
		resp.Close = day.Close.String()
	}
	return resp
}
