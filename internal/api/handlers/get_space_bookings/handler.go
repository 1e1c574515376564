package get_space_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueService/internal/service/bookings"
	"github.com/m04kA/SMC-VenueService/internal/service/bookings/models"
)

const (
	msgInvalidSpaceID  = "некорректный ID площадки"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPeriod   = "некорректный период или статус"
	msgInvalidInactive = "некорректное значение includeInactive"
	msgSpaceNotFound   = "площадка не найдена"
)

type Handler struct {
	service BookingService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service BookingService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/spaces/{spaceId}/bookings
// Query params: from, to (YYYY-MM-DD, to включительно), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/bookings - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	query := r.URL.Query()
	req := &models.ListSpaceBookingsRequest{SpaceID: spaceID}

	if raw := query.Get("from"); raw != "" {
		from, err := handlers.ParseDate(raw, h.loc)
		if err != nil {
			h.logger.Warn("GET /spaces/{id}/bookings - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := handlers.ParseDate(raw, h.loc)
		if err != nil {
			h.logger.Warn("GET /spaces/{id}/bookings - Invalid to: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		// Включаем весь последний день периода
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	req.IncludeInactive, err = handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/bookings - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInactive)
		return
	}

	result, err := h.service.ListBySpace(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrSpaceNotFound):
			h.logger.Warn("GET /spaces/{id}/bookings - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /spaces/{id}/bookings - Invalid filter: space_id=%d, error=%v", spaceID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /spaces/{id}/bookings - Failed to list bookings: space_id=%d, error=%v", spaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spaces/{id}/bookings - Bookings retrieved successfully: space_id=%d, count=%d",
		spaceID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
