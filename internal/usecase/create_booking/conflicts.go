package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// findConflict ищет активное бронирование, пересекающееся с предложенным
// интервалом хотя бы в одну из затронутых дат. Обе стороны проецируются
// на дату так же, как при расчете сетки слотов
func findConflict(start, end time.Time, bookings []*domain.Booking) (*domain.Booking, time.Time, bool) {
	literal := domain.TimeRange{Start: start, End: end}

	for _, day := range domain.DatesBetween(start, end) {
		dayRange := domain.DayRange(day)
		if !literal.Overlaps(dayRange) {
			continue
		}

		proposal := domain.ProjectOnto(start, end, day).Range

		for _, b := range bookings {
			if !b.IsActive() || !touchesDay(b, dayRange) {
				continue
			}
			if proposal.Overlaps(b.RangeOn(day).Range) {
				return b, day, true
			}
		}
	}

	return nil, time.Time{}, false
}

// touchesDay бронирование присутствует в дате; некорректный интервал блокирует любую дату
func touchesDay(b *domain.Booking, day domain.TimeRange) bool {
	if !b.StartAt.Before(b.EndAt) {
		return true
	}
	return domain.TimeRange{Start: b.StartAt, End: b.EndAt}.Overlaps(day)
}
