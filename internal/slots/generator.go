package slots

import (
	"errors"
	"iter"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ErrInvalidGrid возвращается при неположительном шаге или длительности
var ErrInvalidGrid = errors.New("slots: interval and span must be positive")

// Generator генерирует кандидатов на начало записи в рабочем окне дня.
// Кандидаты идут от Open с шагом Interval. Слот выдается, только если
// запись длиной Span целиком помещается до Close: последний слот дня
// никогда не выходит за время закрытия.
type Generator struct {
	Open     types.TimeString
	Close    types.TimeString
	Interval int // шаг сетки в минутах
	Span     int // длительность записи в минутах
}

// NewGenerator создает генератор с проверкой параметров
func NewGenerator(open, closeAt types.TimeString, interval, span int) (Generator, error) {
	if interval <= 0 || span <= 0 {
		return Generator{}, ErrInvalidGrid
	}
	return Generator{Open: open, Close: closeAt, Interval: interval, Span: span}, nil
}

// All возвращает ленивую конечную последовательность стартов.
// Последовательность можно обходить повторно, результат каждый раз одинаковый.
func (g Generator) All() iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		if g.Interval <= 0 || g.Span <= 0 || g.Open.IsZero() || g.Close.IsZero() {
			return
		}

		closeAt := g.Close.Minutes()
		for m := g.Open.Minutes(); m < closeAt && m+g.Span <= closeAt; m += g.Interval {
			slot, err := types.NewTimeStringFromMinutes(m)
			if err != nil {
				return
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Slots собирает все кандидаты в срез
func (g Generator) Slots() []types.TimeString {
	result := make([]types.TimeString, 0)
	for slot := range g.All() {
		result = append(result, slot)
	}
	return result
}

// IsOnGrid проверяет, что start является одним из кандидатов генератора
func (g Generator) IsOnGrid(start types.TimeString) bool {
	if g.Interval <= 0 || start.IsBefore(g.Open) {
		return false
	}
	if start.EndAfter(g.Span) > g.Close.Minutes() {
		return false
	}
	return (start.Minutes()-g.Open.Minutes())%g.Interval == 0
}
