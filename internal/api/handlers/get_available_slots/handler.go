package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-VenueService/internal/usecase/get_available_slots"
)

const (
	msgInvalidSpaceID   = "некорректный ID площадки"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDuration  = "длительность обязательна"
	msgInvalidDuration  = "длительность должна быть от 1 до 12 часов"
	msgInvalidExcludeID = "некорректный ID исключаемого бронирования"
	msgInvalidDebug     = "некорректное значение debug"
	msgSpaceNotFound    = "площадка не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/spaces/{spaceId}/available-slots
// Query params: date (required, YYYY-MM-DD), duration (required, часы), excludeBookingId, debug
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-slots - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	query := r.URL.Query()

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /spaces/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr, h.loc)
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Извлекаем duration из query параметров
	durationStr := query.Get("duration")
	if durationStr == "" {
		h.logger.Warn("GET /spaces/{id}/available-slots - Missing duration")
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	excludeID, err := handlers.QueryID(r, "excludeBookingId")
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-slots - Invalid excludeBookingId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExcludeID)
		return
	}

	debug, err := handlers.QueryBool(r, "debug")
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-slots - Invalid debug flag: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDebug)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		SpaceID:          spaceID,
		Date:             date,
		DurationHours:    duration,
		ExcludeBookingID: excludeID,
		Debug:            debug,
	})
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, getAvailableSlots.ErrSpaceNotFound):
			h.logger.Warn("GET /spaces/{id}/available-slots - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /spaces/{id}/available-slots - Invalid duration: space_id=%d, duration=%d", spaceID, duration)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSpaceID)

		case errors.Is(err, getAvailableSlots.ErrStoreUnavailable):
			h.logger.Error("GET /spaces/{id}/available-slots - Store unavailable: space_id=%d, error=%v", spaceID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /spaces/{id}/available-slots - Failed to get slots: space_id=%d, error=%v", spaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /spaces/{id}/available-slots - Slots retrieved successfully: space_id=%d, date=%s, slots_count=%d",
		spaceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
