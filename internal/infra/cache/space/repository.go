package space

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

const (
	keyPrefix         = "venue:space:"
	tracerName        = "cache.space"
	cacheKeyAttribute = "cache.key"
	cacheHitAttribute = "cache.hit"
)

// cachedSpace формат площадки в Redis
type cachedSpace struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	Capacity  int       `json:"capacity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository read-through кэш площадок поверх репозитория БД.
// Ошибки Redis не пробрасываются: запрос уходит в БД, ошибка пишется в лог
type Repository struct {
	next   SpaceRepository
	client Client
	ttl    time.Duration
	loc    *time.Location
	logger Logger
}

// NewRepository создает кэширующий репозиторий
func NewRepository(next SpaceRepository, client Client, ttl time.Duration, loc *time.Location, logger Logger) *Repository {
	return &Repository{
		next:   next,
		client: client,
		ttl:    ttl,
		loc:    loc,
		logger: logger,
	}
}

// GetByID получает площадку из кэша или из БД с записью в кэш.
// Отсутствие площадки не кэшируется
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	key := spaceKey(id)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "cache.space.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String(cacheKeyAttribute, key))

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedSpace
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			span.SetAttributes(attribute.Bool(cacheHitAttribute, true))
			return r.toDomain(cached), nil
		}
		r.logger.Warn("SpaceCache.GetByID: corrupted entry key=%s: %v", key, jsonErr)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("SpaceCache.GetByID: redis get failed key=%s: %v", key, err)
	}

	span.SetAttributes(attribute.Bool(cacheHitAttribute, false))

	space, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromDomain(space))
	if err != nil {
		r.logger.Warn("SpaceCache.GetByID: marshal space=%d: %v", id, err)
		return space, nil
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("SpaceCache.GetByID: redis set failed key=%s: %v", key, err)
	}

	return space, nil
}

// List не кэшируется
func (r *Repository) List(ctx context.Context) ([]*domain.Space, error) {
	return r.next.List(ctx)
}

func spaceKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

func fromDomain(s *domain.Space) cachedSpace {
	return cachedSpace{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		Capacity:  s.Capacity,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *Repository) toDomain(c cachedSpace) *domain.Space {
	return &domain.Space{
		ID:        c.ID,
		Name:      c.Name,
		Location:  c.Location,
		Capacity:  c.Capacity,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.In(r.loc),
		UpdatedAt: c.UpdatedAt.In(r.loc),
	}
}
