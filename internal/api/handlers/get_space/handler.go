package get_space

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueService/internal/service/spaces"
)

const (
	msgInvalidSpaceID = "некорректный ID площадки"
	msgNotFound       = "площадка не найдена"
)

type Handler struct {
	service SpaceService
	logger  Logger
}

func NewHandler(service SpaceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/spaces/{spaceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("GET /spaces/{id} - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	space, err := h.service.GetByID(r.Context(), spaceID)
	if err != nil {
		if errors.Is(err, spaces.ErrSpaceNotFound) {
			h.logger.Warn("GET /spaces/{id} - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /spaces/{id} - Failed to get space: space_id=%d, error=%v", spaceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, space)
}
