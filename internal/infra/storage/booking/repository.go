package booking

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

var bookingColumns = []string{
	"id",
	"space_id",
	"user_id",
	"start_at",
	"end_at",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
	dialect psqlbuilder.Dialect
	loc     *time.Location
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований.
// Колонки TIMESTAMP хранят время без часового пояса, при чтении оно интерпретируется в loc
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect, loc *time.Location) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.New(dialect),
		dialect: dialect,
		loc:     loc,
		now:     time.Now,
	}
}

// wallClock переводит момент t в часовой пояс площадок перед записью
func (r *Repository) wallClock(t time.Time) types.WallClock {
	return types.WallClockIn(t, r.loc)
}

// timestamp текущий момент в часовом поясе площадок с точностью хранения
func (r *Repository) timestamp() time.Time {
	return r.now().In(r.loc).Truncate(time.Microsecond)
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// created_at и updated_at в часовом поясе площадок, не DEFAULT из БД
	now := r.timestamp()

	query, args, err := r.builder.Insert("bookings").
		Columns(
			"space_id",
			"user_id",
			"start_at",
			"end_at",
			"status",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			booking.SpaceID,
			booking.UserID,
			r.wallClock(booking.StartAt),
			r.wallClock(booking.EndAt),
			booking.Status,
			booking.Notes,
			r.wallClock(now),
			r.wallClock(now),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.StartAt = booking.StartAt.In(r.loc)
	booking.EndAt = booking.EndAt.In(r.loc)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// FetchActiveIntervals возвращает активные бронирования площадки,
// пересекающие полуинтервал [from, to)
func (r *Repository) FetchActiveIntervals(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error) {
	return r.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{SpaceID: spaceID, From: &from, To: &to})
}

// FetchActiveIntervalsForUpdate то же, что FetchActiveIntervals, но внутри транзакции
// блокирует найденные строки (SELECT ... FOR UPDATE) там, где диалект это поддерживает
func (r *Repository) FetchActiveIntervalsForUpdate(ctx context.Context, spaceID int64, from, to time.Time) ([]*domain.Booking, error) {
	filter := domain.SpaceBookingsFilter{SpaceID: spaceID, From: &from, To: &to}
	lock := dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks()
	return r.selectBookings(ctx, "FetchActiveIntervalsForUpdate", filter, lock)
}

// GetBySpaceWithFilter получает бронирования площадки с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Периоду (From, To) - интервал бронирования пересекает период,
//   либо с StartOnly начало бронирования попадает в период
// - Статусу (Status) - опционально
// - Включению неактивных бронирований (IncludeInactive)
// - Исключению одного бронирования (ExcludeID)
//
// Примеры использования:
//
// 1. Все активные бронирования площадки:
//    filter := domain.SpaceBookingsFilter{SpaceID: 7}
//
// 2. Бронирования, начинающиеся в конкретную дату:
//    day := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
//    next := day.AddDate(0, 0, 1)
//    filter := domain.SpaceBookingsFilter{SpaceID: 7, From: &day, To: &next, StartOnly: true}
//
// 3. Все бронирования включая отменённые:
//    filter := domain.SpaceBookingsFilter{SpaceID: 7, IncludeInactive: true}
func (r *Repository) GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error) {
	return r.selectBookings(ctx, "GetBySpaceWithFilter", filter, false)
}

func (r *Repository) selectBookings(ctx context.Context, op string, filter domain.SpaceBookingsFilter, forUpdate bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"space_id": filter.SpaceID})

	// Фильтрация по периоду
	if filter.StartOnly {
		if filter.From != nil {
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": r.wallClock(*filter.From)})
		}
		if filter.To != nil {
			selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": r.wallClock(*filter.To)})
		}
	} else {
		if filter.To != nil {
			selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": r.wallClock(*filter.To)})
		}
		if filter.From != nil {
			selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": r.wallClock(*filter.From)})
		}
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC", "id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("bookings").
		Set("status", status).
		Set("updated_at", r.wallClock(updatedAt)).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", r.wallClock(cancelledAt)).
		Set("updated_at", r.wallClock(cancelledAt)).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var startAt, endAt, cancelledAt, createdAt, updatedAt types.WallClock
	var notes, cancellationReason sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.SpaceID,
		&booking.UserID,
		&startAt,
		&endAt,
		&booking.Status,
		&notes,
		&cancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartAt = startAt.In(r.loc)
	booking.EndAt = endAt.In(r.loc)
	booking.CancelledAt = cancelledAt.PtrIn(r.loc)
	booking.CreatedAt = createdAt.In(r.loc)
	booking.UpdatedAt = updatedAt.In(r.loc)

	if notes.Valid {
		booking.Notes = &notes.String
	}
	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
