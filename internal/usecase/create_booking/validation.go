package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxSeriesDays int) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SpaceID <= 0 {
		return fmt.Errorf("%w: spaceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	if !req.Start.Before(req.End) {
		return fmt.Errorf("%w: start=%s, end=%s", ErrInvalidRange,
			req.Start.Format(domain.DateTimeFormat), req.End.Format(domain.DateTimeFormat))
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if days := len(domain.DatesBetween(req.Start, req.End)); days > maxSeriesDays {
		return fmt.Errorf("%w: %d days, max %d", ErrSeriesTooLong, days, maxSeriesDays)
	}

	return nil
}

// validateStart проверяет, что бронирование не начинается в прошлом
func validateStart(start, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: start=%s, now=%s", ErrStartInPast,
			start.Format(domain.DateTimeFormat), now.In(start.Location()).Format(domain.DateTimeFormat))
	}
	return nil
}
