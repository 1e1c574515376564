package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// WallClockLayout формат, в котором время хранится в БД (без часового пояса)
const WallClockLayout = "2006-01-02 15:04:05.999999"

var parseLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// WallClock время "по часам на стене" для колонок TIMESTAMP без часового пояса.
// При записи смещение отбрасывается, при чтении значение интерпретируется
// в заданной локации через In
type WallClock struct {
	Time  time.Time
	Valid bool
}

// NewWallClock создает значение из времени.
// Сохраняется показание часов t как есть, смещение отбрасывается
func NewWallClock(t time.Time) WallClock {
	return WallClock{Time: t, Valid: true}
}

// WallClockIn сохраняет показание часов момента t в локации loc.
// Для колонок, которые читаются обратно через In(loc)
func WallClockIn(t time.Time, loc *time.Location) WallClock {
	return NewWallClock(t.In(loc))
}

// Scan реализует sql.Scanner.
// lib/pq отдает time.Time, modernc sqlite отдает time.Time или строку
func (w *WallClock) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		w.Time, w.Valid = time.Time{}, false
		return nil
	case time.Time:
		w.Time, w.Valid = v, true
		return nil
	case string:
		return w.parse(v)
	case []byte:
		return w.parse(string(v))
	default:
		return fmt.Errorf("types.WallClock: unsupported source type %T", src)
	}
}

func (w *WallClock) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			w.Time, w.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("types.WallClock: cannot parse %q", s)
}

// Value реализует driver.Valuer
func (w WallClock) Value() (driver.Value, error) {
	if !w.Valid {
		return nil, nil
	}
	return w.Time.Format(WallClockLayout), nil
}

// In возвращает то же показание часов в локации loc
func (w WallClock) In(loc *time.Location) time.Time {
	if !w.Valid {
		return time.Time{}
	}
	t := w.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// PtrIn то же, что In, но nil для NULL
func (w WallClock) PtrIn(loc *time.Location) *time.Time {
	if !w.Valid {
		return nil
	}
	t := w.In(loc)
	return &t
}
