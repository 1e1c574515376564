package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// ErrInvalidParam некорректный параметр запроса
var ErrInvalidParam = errors.New("handlers: invalid parameter")

// PathID извлекает положительный ID из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name])
}

// QueryID извлекает необязательный положительный ID из query параметра
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryBool извлекает необязательный булев query параметр
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return v, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id=%q", ErrInvalidParam, raw)
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе площадок
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date=%q", ErrInvalidParam, raw)
	}
	return t, nil
}

// ParseDateTime разбирает время без смещения (2006-01-02T15:04:05) как время площадки.
// Время с явным смещением (RFC 3339) переводится в часовой пояс площадок
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateTimeFormat, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: datetime=%q", ErrInvalidParam, raw)
}
