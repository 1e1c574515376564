package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/booking"
	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	spaceRepo    SpaceRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	spaceRepo SpaceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		spaceRepo:    spaceRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListBySpace получает бронирования площадки с фильтрацией по периоду и статусу
//
// Примеры использования:
// - Все активные бронирования: ListBySpace(ctx, &ListSpaceBookingsRequest{SpaceID: 7})
// - Бронирования, пересекающие период: указать From и To
// - Только подтвержденные: Status = "confirmed"
// - Включая отменённые и отклонённые: IncludeInactive = true
func (s *Service) ListBySpace(ctx context.Context, req *models.ListSpaceBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListBySpace: fetching bookings for space=%d", req.SpaceID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("ListBySpace: empty period for space=%d", req.SpaceID)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBySpace: invalid status=%s", *req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if _, err := s.spaceRepo.GetByID(ctx, req.SpaceID); err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			s.logger.Warn("ListBySpace: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		s.logger.Error("ListBySpace: failed to get space id=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: ListBySpace - failed to get space: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetBySpaceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBySpace: repository error for space=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: ListBySpace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBySpace: successfully fetched %d bookings for space=%d", len(bookings), req.SpaceID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить можно бронирование в статусе pending, approved или confirmed
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil {
		reason := strings.TrimSpace(*req.CancellationReason)
		if len([]rune(reason)) > domain.MaxCancellationReasonLength {
			return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		if reason == "" {
			req.CancellationReason = nil
		} else {
			req.CancellationReason = &reason
		}
	}

	var result *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason, s.timeProvider.Now()); err != nil {
			return s.repoError("Cancel", bookingID, err)
		}

		result, err = s.getBooking(txCtx, "Cancel", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(result), nil
}

// UpdateStatus обновляет статус бронирования
// Допустимые переходы: pending -> approved|rejected, approved -> confirmed|rejected,
// confirmed -> completed
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", bookingID, req.Status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var result *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s", bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus, s.timeProvider.Now()); err != nil {
			return s.repoError("UpdateStatus", bookingID, err)
		}

		result, err = s.getBooking(txCtx, "UpdateStatus", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(result), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError(op, id, err)
	}
	return booking, nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
