package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

const tracerName = "github.com/m04kA/SMC-VenueService/internal/usecase/get_available_slots"

// UseCase use case для получения доступных слотов площадки на дату
type UseCase struct {
	bookingRepo BookingRepository
	spaceRepo   SpaceRepository
	txManager   TransactionManager
	retry       RetryPolicy
	observer    SlotsObserver
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	spaceRepo SpaceRepository,
	txManager TransactionManager,
	retryPolicy RetryPolicy,
	observer SlotsObserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		spaceRepo:   spaceRepo,
		txManager:   txManager,
		retry:       retryPolicy,
		observer:    observer,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "GetAvailableSlots")
	defer span.End()

	uc.logger.Info("GetAvailableSlots: space=%d, date=%s, duration=%dh",
		req.SpaceID, req.Date.Format(domain.DateFormat), req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("venue.space_id", req.SpaceID),
		attribute.String("venue.date", req.Date.Format(domain.DateFormat)),
		attribute.Int("venue.duration_hours", req.DurationHours),
	)

	// 2. Получаем площадку
	var space *domain.Space
	err := uc.retry.Do(ctx, "GetSpace", func(ctx context.Context) error {
		var err error
		space, err = uc.spaceRepo.GetByID(ctx, req.SpaceID)
		return err
	})
	if err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			uc.logger.Warn("GetAvailableSlots: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		return nil, uc.storeError(span, "failed to get space", err)
	}

	// 3. Получаем активные бронирования, пересекающие сутки
	day := domain.DayRange(req.Date)

	var bookings []*domain.Booking
	err = uc.retry.Do(ctx, "FetchActiveIntervals", func(ctx context.Context) error {
		return uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
			var err error
			bookings, err = uc.bookingRepo.FetchActiveIntervals(txCtx, req.SpaceID, day.Start, day.End)
			return err
		})
	})
	if err != nil {
		return nil, uc.storeError(span, "failed to fetch bookings", err)
	}

	// 4. Вычисляем занятые диапазоны на дату (исключая редактируемое бронирование)
	blocks := resolveBlocks(day.Start, bookings, req.ExcludeBookingID)
	for _, b := range blocks {
		uc.logger.Debug("GetAvailableSlots: booking id=%d (%s) blocks [%s, %s), projected=%t, full_day=%t",
			b.BookingID, b.Status, b.ProjectedStart.Format(domain.DateTimeFormat),
			b.ProjectedEnd.Format(domain.DateTimeFormat), b.Projected, b.FullDay)
	}

	// 5. Фильтруем часовую сетку
	slots := availableSlots(day.Start, req.DurationHours, blocks)

	if uc.observer != nil {
		uc.observer.ObserveAvailableSlots(len(slots))
	}
	span.SetAttributes(
		attribute.Int("venue.bookings", len(bookings)),
		attribute.Int("venue.available_slots", len(slots)),
	)

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for space=%d, date=%s (%d blocks)",
		len(slots), domain.SlotsPerDay, req.SpaceID, day.Start.Format(domain.DateFormat), len(blocks))

	response := &Response{
		Date:          day.Start,
		SpaceID:       space.ID,
		SpaceName:     space.Name,
		DurationHours: req.DurationHours,
		Slots:         slots,
	}
	if req.Debug {
		response.ProjectedBlocks = blocks
	}

	return response, nil
}

// storeError переводит ошибку хранилища в ошибку use case
func (uc *UseCase) storeError(span trace.Span, step string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, step)

	if errors.Is(err, retry.ErrExhausted) {
		uc.logger.Error("GetAvailableSlots: %s, store unavailable: %v", step, err)
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, step, err)
	}

	uc.logger.Error("GetAvailableSlots: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}
