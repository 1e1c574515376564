package get_available_slots

import (
	"github.com/m04kA/SMC-VenueService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-VenueService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string           `json:"date"`
	SpaceID         int64            `json:"spaceId"`
	SpaceName       string           `json:"spaceName"`
	DurationHours   int              `json:"durationHours"`
	AvailableSlots  []string         `json:"availableSlots"` // ["12:00 AM", "1:00 AM", ...]
	ProjectedBlocks []ProjectedBlock `json:"projectedBlocks,omitempty"`
}

// ProjectedBlock занятый диапазон на дату запроса (режим debug)
type ProjectedBlock struct {
	BookingID      int64  `json:"bookingId"`
	Status         string `json:"status"`
	OriginalStart  string `json:"originalStart"`
	OriginalEnd    string `json:"originalEnd"`
	ProjectedStart string `json:"projectedStart"`
	ProjectedEnd   string `json:"projectedEnd"`
	Projected      bool   `json:"projected"`
	FullDay        bool   `json:"fullDay,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.Label()
	}

	var blocks []ProjectedBlock
	if resp.ProjectedBlocks != nil {
		blocks = make([]ProjectedBlock, len(resp.ProjectedBlocks))
		for i, b := range resp.ProjectedBlocks {
			blocks[i] = ProjectedBlock{
				BookingID:      b.BookingID,
				Status:         string(b.Status),
				OriginalStart:  b.OriginalStart.Format(domain.DateTimeFormat),
				OriginalEnd:    b.OriginalEnd.Format(domain.DateTimeFormat),
				ProjectedStart: b.ProjectedStart.Format(domain.DateTimeFormat),
				ProjectedEnd:   b.ProjectedEnd.Format(domain.DateTimeFormat),
				Projected:      b.Projected,
				FullDay:        b.FullDay,
			}
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		SpaceID:         resp.SpaceID,
		SpaceName:       resp.SpaceName,
		DurationHours:   resp.DurationHours,
		AvailableSlots:  slots,
		ProjectedBlocks: blocks,
	}
}
