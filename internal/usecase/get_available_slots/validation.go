package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SpaceID <= 0 {
		return fmt.Errorf("%w: spaceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if req.DurationHours < domain.MinDurationHours || req.DurationHours > domain.MaxDurationHours {
		return fmt.Errorf("%w: duration must be between %d and %d hours, got %d",
			ErrInvalidDuration, domain.MinDurationHours, domain.MaxDurationHours, req.DurationHours)
	}

	return nil
}
