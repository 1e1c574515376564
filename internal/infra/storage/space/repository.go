package space

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-VenueService/internal/domain"
	"github.com/m04kA/SMC-VenueService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueService/pkg/types"
)

var spaceColumns = []string{
	"id",
	"name",
	"location",
	"capacity",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий площадок
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
	loc     *time.Location
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория площадок.
// loc часовой пояс, в котором интерпретируются значения TIMESTAMP
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect, loc *time.Location) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.New(dialect),
		loc:     loc,
		now:     time.Now,
	}
}

// Create создает площадку
func (r *Repository) Create(ctx context.Context, space *domain.Space) (*domain.Space, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now().In(r.loc).Truncate(time.Microsecond)

	query, args, err := r.builder.Insert("spaces").
		Columns("name", "location", "capacity", "is_active", "created_at", "updated_at").
		Values(space.Name, space.Location, space.Capacity, space.IsActive, types.NewWallClock(now), types.NewWallClock(now)).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&space.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	space.CreatedAt = now
	space.UpdatedAt = now

	return space, nil
}

// SeedIfEmpty создает площадки из seeds, если таблица spaces пуста.
// Возвращает количество созданных площадок
func (r *Repository) SeedIfEmpty(ctx context.Context, seeds []*domain.Space) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("COUNT(*)").From("spaces").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SeedIfEmpty - build count query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: SeedIfEmpty - count spaces: %v", ErrExecQuery, err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, seed := range seeds {
		if _, err := r.Create(ctx, seed); err != nil {
			return 0, err
		}
	}

	return len(seeds), nil
}

// GetByID получает активную площадку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(spaceColumns...).
		From("spaces").
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	space, err := r.scanSpace(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan space: %v", ErrScanRow, err)
	}

	return space, nil
}

// List возвращает активные площадки, упорядоченные по названию
func (r *Repository) List(ctx context.Context) ([]*domain.Space, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(spaceColumns...).
		From("spaces").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	spaces := make([]*domain.Space, 0)
	for rows.Next() {
		space, err := r.scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		spaces = append(spaces, space)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return spaces, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSpace(row rowScanner) (*domain.Space, error) {
	var space domain.Space
	var location sql.NullString
	var createdAt, updatedAt types.WallClock

	err := row.Scan(
		&space.ID,
		&space.Name,
		&location,
		&space.Capacity,
		&space.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		space.Location = &location.String
	}
	space.CreatedAt = createdAt.In(r.loc)
	space.UpdatedAt = updatedAt.In(r.loc)

	return &space, nil
}
