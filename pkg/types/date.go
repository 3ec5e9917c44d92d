package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate возвращается при некорректном формате даты (ожидается YYYY-MM-DD)
var ErrInvalidDate = errors.New("types: invalid date format")

// Date календарная дата без времени и часового пояса.
// Сравнимое значение, пригодно как ключ map.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate парсит строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustDate парсит дату и паникует при ошибке. Для констант и тестов.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf возвращает календарную дату момента t в его часовом поясе
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// At возвращает момент времени ts в дату d в часовом поясе loc
func (d Date) At(ts TimeString, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, ts.Minutes(), 0, 0, loc)
}

// Time возвращает полночь даты в UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday возвращает день недели
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays возвращает дату, сдвинутую на n дней
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before проверяет, что дата строго раньше other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After проверяет, что дата строго позже other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Equal проверяет равенство дат
func (d Date) Equal(other Date) bool {
	return d == other
}

// DaysUntil возвращает количество дней от d до other (отрицательное, если other раньше)
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// IsZero проверяет, задана ли дата
func (d Date) IsZero() bool {
	return d == Date{}
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// Scan реализует sql.Scanner для DATE из PostgreSQL
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDate, value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// MarshalJSON сериализует дату в строку YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON разбирает строку YYYY-MM-DD
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText позволяет использовать Date как ключ JSON-объекта
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText разбирает ключ JSON-объекта
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
