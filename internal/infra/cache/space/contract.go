package space

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SpaceRepository источник данных о площадках
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	List(ctx context.Context) ([]*domain.Space, error)
}

// Client подмножество *redis.Client, используемое кэшем
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
