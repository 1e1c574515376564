package validate_interval

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueService/internal/domain"
	validateInterval "github.com/m04kA/SMC-VenueService/internal/usecase/validate_interval"
)

const (
	msgIntervalAvailable = "интервал свободен"
	msgIntervalConflicts = "интервал пересекается с существующими бронированиями: %d"
)

// ValidateIntervalRequest HTTP request model
type ValidateIntervalRequest struct {
	Start            string `json:"start" validate:"required"` // "2025-06-01T14:00:00"
	End              string `json:"end" validate:"required"`
	ExcludeBookingID *int64 `json:"excludeBookingId,omitempty" validate:"omitempty,gt=0"`
}

// ValidateIntervalResponse HTTP response model
type ValidateIntervalResponse struct {
	IsAvailable bool       `json:"isAvailable"`
	Message     string     `json:"message"`
	Conflicting []Conflict `json:"conflicting"`
}

// Conflict конфликтующее бронирование
type Conflict struct {
	ID     int64  `json:"id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateIntervalRequest) ToUseCaseRequest(spaceID int64, loc *time.Location) (*validateInterval.Request, error) {
	start, err := handlers.ParseDateTime(r.Start, loc)
	if err != nil {
		return nil, err
	}

	end, err := handlers.ParseDateTime(r.End, loc)
	if err != nil {
		return nil, err
	}

	return &validateInterval.Request{
		SpaceID:          spaceID,
		Start:            start,
		End:              end,
		ExcludeBookingID: r.ExcludeBookingID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateInterval.Response) *ValidateIntervalResponse {
	conflicts := make([]Conflict, len(resp.Conflicts))
	for i, c := range resp.Conflicts {
		conflicts[i] = Conflict{
			ID:     c.ID,
			Start:  c.Start.Format(domain.DateTimeFormat),
			End:    c.End.Format(domain.DateTimeFormat),
			Status: string(c.Status),
		}
	}

	message := msgIntervalAvailable
	if !resp.IsAvailable {
		message = fmt.Sprintf(msgIntervalConflicts, len(conflicts))
	}

	return &ValidateIntervalResponse{
		IsAvailable: resp.IsAvailable,
		Message:     message,
		Conflicting: conflicts,
	}
}
