package validate_interval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

const tracerName = "github.com/m04kA/SMC-VenueService/internal/usecase/validate_interval"

// UseCase точечная проверка одного предложенного интервала
type UseCase struct {
	bookingRepo BookingRepository
	spaceRepo   SpaceRepository
	retry       RetryPolicy
	projection  bool
	logger      Logger
}

// NewUseCase создает новый экземпляр use case.
// При projection = false сравнение идет с исходными интервалами бронирований,
// начинающихся в дату start. При projection = true используются
// спроецированные на дату диапазоны, как при расчете сетки слотов
func NewUseCase(
	bookingRepo BookingRepository,
	spaceRepo SpaceRepository,
	retryPolicy RetryPolicy,
	projection bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		spaceRepo:   spaceRepo,
		retry:       retryPolicy,
		projection:  projection,
		logger:      logger,
	}
}

// Execute выполняет проверку интервала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ValidateInterval")
	defer span.End()

	uc.logger.Info("ValidateInterval: space=%d, start=%s, end=%s",
		req.SpaceID, req.Start.Format(domain.DateTimeFormat), req.End.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateInterval: validation failed: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("venue.space_id", req.SpaceID),
		attribute.Bool("venue.projection", uc.projection),
	)

	// 2. Проверяем существование площадки
	err := uc.retry.Do(ctx, "GetSpace", func(ctx context.Context) error {
		_, err := uc.spaceRepo.GetByID(ctx, req.SpaceID)
		return err
	})
	if err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			uc.logger.Warn("ValidateInterval: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "get space")
		return nil, uc.storeError("failed to get space", err)
	}

	// 3. Получаем бронирования на дату начала
	day := domain.DayRange(req.Start)
	var bookings []*domain.Booking
	err = uc.retry.Do(ctx, "FetchIntervalsOnDate", func(ctx context.Context) error {
		var err error
		bookings, err = uc.fetch(ctx, req, day)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch bookings")
		return nil, uc.storeError("failed to fetch bookings", err)
	}

	// 4. Ищем конфликты
	proposal := domain.TimeRange{Start: req.Start, End: req.End}
	conflicts := make([]Conflict, 0)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if req.ExcludeBookingID != nil && b.ID == *req.ExcludeBookingID {
			continue
		}
		if uc.conflicts(proposal, b, day.Start) {
			conflicts = append(conflicts, Conflict{ID: b.ID, Start: b.StartAt, End: b.EndAt, Status: b.Status})
		}
	}

	uc.logger.Info("ValidateInterval: space=%d, checked %d bookings, %d conflicts",
		req.SpaceID, len(bookings), len(conflicts))

	return &Response{
		IsAvailable: len(conflicts) == 0,
		Conflicts:   conflicts,
	}, nil
}

func (uc *UseCase) fetch(ctx context.Context, req *Request, day domain.TimeRange) ([]*domain.Booking, error) {
	if uc.projection {
		return uc.bookingRepo.FetchActiveIntervals(ctx, req.SpaceID, day.Start, day.End)
	}

	// Только бронирования, начинающиеся в дату start
	return uc.bookingRepo.GetBySpaceWithFilter(ctx, domain.SpaceBookingsFilter{
		SpaceID:   req.SpaceID,
		From:      &day.Start,
		To:        &day.End,
		StartOnly: true,
		ExcludeID: req.ExcludeBookingID,
	})
}

func (uc *UseCase) conflicts(proposal domain.TimeRange, b *domain.Booking, day time.Time) bool {
	if uc.projection {
		return proposal.Overlaps(b.RangeOn(day).Range)
	}
	return proposal.Conflicts(domain.LiteralOn(b.StartAt, b.EndAt, day).Range)
}

func (uc *UseCase) storeError(step string, err error) error {
	if errors.Is(err, retry.ErrExhausted) {
		uc.logger.Error("ValidateInterval: %s, store unavailable: %v", step, err)
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, step, err)
	}

	uc.logger.Error("ValidateInterval: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}
