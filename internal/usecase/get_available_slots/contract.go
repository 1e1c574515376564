package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// BookingRepository интерфейс хранилища бронирований
type BookingRepository interface {
	// FetchActiveIntervals активные бронирования площадки, пересекающие [from, to)
	FetchActiveIntervals(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error)
}

// SpaceRepository интерфейс получения площадки
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// TransactionManager запуск чтения в одной транзакции
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// RetryPolicy повтор обращений к хранилищу при временных ошибках
type RetryPolicy interface {
	Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error
}

// SlotsObserver получатель метрики размера ответа (может быть nil)
type SlotsObserver interface {
	ObserveAvailableSlots(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
