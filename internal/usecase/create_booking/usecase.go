package create_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/pkg/retry"
)

const tracerName = "github.com/m04kA/SMC-VenueService/internal/usecase/create_booking"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	spaceRepo     SpaceRepository
	txManager     TransactionManager
	retry         RetryPolicy
	maxSeriesDays int
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	spaceRepo SpaceRepository,
	txManager TransactionManager,
	retryPolicy RetryPolicy,
	maxSeriesDays int,
	logger Logger,
) *UseCase {
	if maxSeriesDays <= 0 {
		maxSeriesDays = domain.DefaultMaxSeriesDays
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		spaceRepo:     spaceRepo,
		txManager:     txManager,
		retry:         retryPolicy,
		maxSeriesDays: maxSeriesDays,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка доступности и вставка выполняются в сериализуемой транзакции,
// конфликт сериализации повторяется политикой повторов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "CreateBooking")
	defer span.End()

	uc.logger.Info("CreateBooking: user=%d, space=%d, start=%s, end=%s",
		req.UserID, req.SpaceID, req.Start.Format(domain.DateTimeFormat), req.End.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxSeriesDays); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что начало не в прошлом
	if err := validateStart(req.Start, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("venue.space_id", req.SpaceID),
		attribute.Int64("venue.user_id", req.UserID),
	)

	// 3. Проверяем существование площадки
	err := uc.retry.Do(ctx, "GetSpace", func(ctx context.Context) error {
		_, err := uc.spaceRepo.GetByID(ctx, req.SpaceID)
		return err
	})
	if err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			uc.logger.Warn("CreateBooking: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "get space")
		return nil, uc.storeError("failed to get space", err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 4. Выполняем проверку и вставку в сериализуемой транзакции
	from := domain.DayStart(req.Start)
	to := domain.DayStart(req.End).AddDate(0, 0, 1)

	err = uc.retry.Do(ctx, "CreateBooking", func(ctx context.Context) error {
		return uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			// 4.1. Получаем активные бронирования затронутых дат с блокировкой (FOR UPDATE)
			bookings, err := uc.bookingRepo.FetchActiveIntervalsForUpdate(txCtx, req.SpaceID, from, to)
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}

			// 4.2. Проверяем пересечения по каждой дате
			if conflict, day, found := findConflict(req.Start, req.End, bookings); found {
				uc.logger.Warn("CreateBooking: conflict with booking id=%d on %s",
					conflict.ID, day.Format(domain.DateFormat))
				return ErrSlotNotAvailable
			}

			// 4.3. Сохраняем бронирование
			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				SpaceID: req.SpaceID,
				UserID:  req.UserID,
				StartAt: req.Start,
				EndAt:   req.End,
				Status:  domain.StatusPending,
				Notes:   req.Notes,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create booking")
		return nil, uc.storeError("failed to create booking", err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:        result.ID,
		SpaceID:   result.SpaceID,
		UserID:    result.UserID,
		StartAt:   result.StartAt,
		EndAt:     result.EndAt,
		Status:    result.Status,
		Notes:     result.Notes,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}

func (uc *UseCase) storeError(step string, err error) error {
	if errors.Is(err, retry.ErrExhausted) {
		uc.logger.Error("CreateBooking: %s, store unavailable: %v", step, err)
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, step, err)
	}

	if errors.Is(err, ErrInternal) {
		uc.logger.Error("CreateBooking: %s: %v", step, err)
		return err
	}

	uc.logger.Error("CreateBooking: %s: %v", step, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}
