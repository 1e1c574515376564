package validate_interval

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	validateInterval "github.com/m04kA/SMC-VenueService/internal/usecase/validate_interval"
)

const (
	msgInvalidSpaceID     = "некорректный ID площадки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат времени, ожидается YYYY-MM-DDTHH:MM:SS"
	msgInvalidRange       = "начало интервала должно быть раньше окончания"
	msgSpaceNotFound      = "площадка не найдена"
)

type Handler struct {
	useCase ValidateIntervalUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase ValidateIntervalUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/spaces/{spaceId}/validate-interval
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("POST /spaces/{id}/validate-interval - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	// Декодируем body
	var req ValidateIntervalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /spaces/{id}/validate-interval - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /spaces/{id}/validate-interval - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(spaceID, h.loc)
	if err != nil {
		h.logger.Warn("POST /spaces/{id}/validate-interval - Invalid datetime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateInterval.ErrInvalidRange):
			h.logger.Warn("POST /spaces/{id}/validate-interval - Invalid range: space_id=%d, start=%s, end=%s",
				spaceID, req.Start, req.End)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, validateInterval.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, validateInterval.ErrSpaceNotFound):
			h.logger.Warn("POST /spaces/{id}/validate-interval - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, validateInterval.ErrStoreUnavailable):
			h.logger.Error("POST /spaces/{id}/validate-interval - Store unavailable: space_id=%d, error=%v", spaceID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /spaces/{id}/validate-interval - Failed to validate interval: space_id=%d, error=%v",
				spaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /spaces/{id}/validate-interval - Interval checked: space_id=%d, available=%t, conflicts=%d",
		spaceID, result.IsAvailable, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
