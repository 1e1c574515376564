package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// statusTransitions допустимые переходы статуса, кроме отмены
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusCompleted},
}

// Booking represents a reservation of a space for an interval.
// EndAt is exclusive. When StartAt and EndAt fall on different dates
// the booking is a recurring daily window, see ProjectOnto
type Booking struct {
	ID      int64
	SpaceID int64
	UserID  int64
	StartAt time.Time
	EndAt   time.Time
	Status  BookingStatus
	Notes   *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking blocks the space
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusRejected
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved || b.Status == StatusConfirmed
}

// CanTransitionTo returns true if status may follow the current one
func (b *Booking) CanTransitionTo(status BookingStatus) bool {
	for _, next := range statusTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// IsMultiDay returns true if the booking spans several calendar dates
func (b *Booking) IsMultiDay() bool {
	return !IsSameDate(b.StartAt, b.EndAt)
}

// RangeOn returns the range the booking occupies on day
func (b *Booking) RangeOn(day time.Time) Projection {
	return ProjectOnto(b.StartAt, b.EndAt, day)
}

// SpaceBookingsFilter фильтр для получения бронирований площадки
type SpaceBookingsFilter struct {
	SpaceID         int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода, не включительно (опционально)
	StartOnly       bool           // true: период ограничивает только start_at, иначе интервал должен пересекать период
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и отклоненные бронирования
	ExcludeID       *int64         // Исключить бронирование (при редактировании)
}
