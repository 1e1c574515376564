package models

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// SpaceResponse ответ с данными площадки
type SpaceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SpaceListResponse ответ со списком площадок
type SpaceListResponse struct {
	Spaces []SpaceResponse `json:"spaces"`
}

// FromDomainSpace конвертирует domain модель в DTO
func FromDomainSpace(s *domain.Space) *SpaceResponse {
	if s == nil {
		return nil
	}
	return &SpaceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		Capacity:  s.Capacity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainSpaceList конвертирует список domain моделей в DTO
func FromDomainSpaceList(spaces []*domain.Space) *SpaceListResponse {
	resp := &SpaceListResponse{Spaces: make([]SpaceResponse, 0, len(spaces))}
	for _, s := range spaces {
		if item := FromDomainSpace(s); item != nil {
			resp.Spaces = append(resp.Spaces, *item)
		}
	}
	return resp
}
