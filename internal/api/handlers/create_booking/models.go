package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueService/internal/domain"
	createBooking "github.com/m04kA/SMC-VenueService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SpaceID int64   `json:"spaceId" validate:"required,gt=0"`
	Start   string  `json:"start" validate:"required"` // "2025-06-01T14:00:00"
	End     string  `json:"end" validate:"required"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, loc *time.Location) (*createBooking.Request, error) {
	start, err := handlers.ParseDateTime(r.Start, loc)
	if err != nil {
		return nil, err
	}

	end, err := handlers.ParseDateTime(r.End, loc)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:  userID,
		SpaceID: r.SpaceID,
		Start:   start,
		End:     end,
		Notes:   r.Notes,
	}, nil
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID        int64     `json:"id"`
	SpaceID   int64     `json:"spaceId"`
	UserID    int64     `json:"userId"`
	StartAt   string    `json:"startAt"`
	EndAt     string    `json:"endAt"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:        resp.ID,
		SpaceID:   resp.SpaceID,
		UserID:    resp.UserID,
		StartAt:   resp.StartAt.Format(domain.DateTimeFormat),
		EndAt:     resp.EndAt.Format(domain.DateTimeFormat),
		Status:    string(resp.Status),
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}
