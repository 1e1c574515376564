package validate_interval

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error)
	FetchActiveIntervals(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error)
}

// SpaceRepository интерфейс получения площадки
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// RetryPolicy повтор обращений к хранилищу при временных ошибках
type RetryPolicy interface {
	Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
