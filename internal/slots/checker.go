package slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Overlaps проверяет пересечение полуинтервалов [s, e) и [rs, re) в минутах.
// Соприкасающиеся интервалы (e == rs или re == s) не пересекаются.
func Overlaps(s, e, rs, re int) bool {
	return s < re && rs < e
}

// Checker отмечает кандидатов как доступные или занятые для одного сотрудника в один день
type Checker struct {
	Date            types.Date
	DurationMinutes int
	LeadTimeMinutes int
	Now             time.Time
	Location        *time.Location
}

// Conflicts возвращает true, если [start, start+duration) пересекается с активным бронированием
func (c Checker) Conflicts(start types.TimeString, reservations []*domain.Reservation) bool {
	s := start.Minutes()
	e := start.EndAfter(c.DurationMinutes)

	for _, r := range reservations {
		// Отмененные бронирования интервал не занимают
		if r == nil || !r.IsActive() {
			continue
		}
		if Overlaps(s, e, r.StartMinute(), r.EndMinute()) {
			return true
		}
	}
	return false
}

// TooLate возвращает true, если слот нарушает lead time.
// Проверка действует только для текущего дня: слоты будущих дней не фильтруются.
func (c Checker) TooLate(start types.TimeString) bool {
	loc := c.location()
	now := c.Now.In(loc)
	if types.DateOf(now) != c.Date {
		return false
	}
	earliest := now.Add(time.Duration(c.LeadTimeMinutes) * time.Minute)
	return c.Date.At(start, loc).Before(earliest)
}

// Available объединяет проверку lead time и пересечений
func (c Checker) Available(start types.TimeString, reservations []*domain.Reservation) bool {
	return !c.TooLate(start) && !c.Conflicts(start, reservations)
}

// Mark возвращает кандидатов с отметкой доступности в порядке возрастания времени
func (c Checker) Mark(candidates []types.TimeString, reservations []*domain.Reservation) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(candidates))
	for _, slot := range candidates {
		result = append(result, domain.AvailableSlot{
			StartTime: slot,
			Available: c.Available(slot, reservations),
		})
	}
	return result
}

func (c Checker) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
