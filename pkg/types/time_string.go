package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	timeLayout     = "15:04"
	minutesPerDay  = 24 * 60
	pgTimeLayout   = "15:04:05"
	pgTimeLayoutTZ = "15:04:05Z07:00"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени (ожидается HH:MM)
	ErrInvalidTimeString = errors.New("types: invalid time string format")

	// ErrTimeOverflow возвращается, когда арифметика выходит за пределы суток
	ErrTimeOverflow = errors.New("types: time overflows the day")
)

// TimeString время суток с точностью до минуты (HH:MM) без привязки к дате и часовому поясу
// Нулевое значение означает "не задано"
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString создает TimeString из часов и минут time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), set: true}
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString{minutes: minutes, set: true}, nil
}

// MustTimeString парсит строку HH:MM и паникует при ошибке. Для констант и тестов.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// NewTimeStringFromString парсит строго форматированную строку HH:MM (00:00 - 23:59)
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) != len(timeLayout) || s[2] != ':' {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// Minutes возвращает количество минут от полуночи
func (ts TimeString) Minutes() int {
	return ts.minutes
}

// AddMinutes возвращает время, сдвинутое на n минут.
// Результат должен оставаться в пределах тех же суток.
func (ts TimeString) AddMinutes(n int) (TimeString, error) {
	if !ts.set {
		return TimeString{}, fmt.Errorf("%w: zero value", ErrInvalidTimeString)
	}
	return NewTimeStringFromMinutes(ts.minutes + n)
}

// EndAfter возвращает конец интервала длиной n минут в минутах от полуночи.
// Может быть равен 1440, если интервал заканчивается ровно в полночь.
func (ts TimeString) EndAfter(n int) int {
	return ts.minutes + n
}

// IsBefore проверяет, что время строго раньше other
func (ts TimeString) IsBefore(other TimeString) bool {
	return ts.minutes < other.minutes
}

// IsAfter проверяет, что время строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	return ts.minutes > other.minutes
}

// Equal проверяет равенство двух значений
func (ts TimeString) Equal(other TimeString) bool {
	return ts == other
}

// IsZero проверяет, задано ли время
func (ts TimeString) IsZero() bool {
	return !ts.set
}

// Validate проверяет, что время задано
func (ts TimeString) Validate() error {
	if !ts.set {
		return fmt.Errorf("%w: empty", ErrInvalidTimeString)
	}
	return nil
}

// String возвращает время в формате HH:MM
func (ts TimeString) String() string {
	if !ts.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", ts.minutes/60, ts.minutes%60)
}

// Scan реализует sql.Scanner. Поддерживает TIME из PostgreSQL ("15:04:05"), "15:04" и time.Time.
func (ts *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*ts = TimeString{}
		return nil
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	case []byte:
		return ts.scanString(string(v))
	case string:
		return ts.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, value)
	}
}

func (ts *TimeString) scanString(s string) error {
	for _, layout := range []string{pgTimeLayout, timeLayout, pgTimeLayoutTZ} {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = NewTimeString(t)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	if !ts.set {
		return nil, nil
	}
	return ts.String(), nil
}

// MarshalJSON сериализует время в строку HH:MM
func (ts TimeString) MarshalJSON() ([]byte, error) {
	if !ts.set {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON разбирает строку HH:MM
func (ts *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = TimeString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
