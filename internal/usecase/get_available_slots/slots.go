package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// resolveBlocks вычисляет занятые диапазоны на дату day.
// Неактивные бронирования и бронирование excludeID пропускаются
func resolveBlocks(day time.Time, bookings []*domain.Booking, excludeID *int64) []ProjectedBlock {
	blocks := make([]ProjectedBlock, 0, len(bookings))

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}

		p := b.RangeOn(day)
		blocks = append(blocks, ProjectedBlock{
			BookingID:      b.ID,
			Status:         b.Status,
			OriginalStart:  b.StartAt,
			OriginalEnd:    b.EndAt,
			ProjectedStart: p.Range.Start,
			ProjectedEnd:   p.Range.End,
			Projected:      p.Projected,
			FullDay:        p.FullDay,
		})
	}

	return blocks
}

// generateCandidates генерирует часовых кандидатов [D+h, D+h+duration), h = 0..23.
// Часы, которых нет в локации дня (переход на летнее время), пропускаются
func generateCandidates(day time.Time, durationHours int) []domain.AvailableSlot {
	dayStart := domain.DayStart(day)
	y, m, d := dayStart.Date()

	candidates := make([]domain.AvailableSlot, 0, domain.SlotsPerDay)
	for h := 0; h < domain.SlotsPerDay; h++ {
		start := time.Date(y, m, d, h, 0, 0, 0, dayStart.Location())
		if start.Hour() != h {
			continue
		}
		candidates = append(candidates, domain.AvailableSlot{
			Start: start,
			End:   start.Add(time.Duration(durationHours) * time.Hour),
		})
	}

	return candidates
}

// availableSlots оставляет кандидатов, не пересекающихся ни с одним блоком.
// Касание границ конфликтом не считается
func availableSlots(day time.Time, durationHours int, blocks []ProjectedBlock) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, domain.SlotsPerDay)

	for _, candidate := range generateCandidates(day, durationHours) {
		if !overlapsAny(candidate.Range(), blocks) {
			result = append(result, candidate)
		}
	}

	return result
}

func overlapsAny(r domain.TimeRange, blocks []ProjectedBlock) bool {
	for _, b := range blocks {
		if r.Overlaps(domain.TimeRange{Start: b.ProjectedStart, End: b.ProjectedEnd}) {
			return true
		}
	}
	return false
}
