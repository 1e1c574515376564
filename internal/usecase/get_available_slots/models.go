package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SpaceID          int64     // ID площадки
	Date             time.Time // Дата в часовом поясе площадок (время игнорируется)
	DurationHours    int       // Длительность бронирования, 1..12 часов
	ExcludeBookingID *int64    // Бронирование, которое редактируется (не считается конфликтом)
	Debug            bool      // Вернуть спроецированные блоки
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	SpaceID         int64
	SpaceName       string
	DurationHours   int
	Slots           []domain.AvailableSlot // По возрастанию времени начала
	ProjectedBlocks []ProjectedBlock       // Только при Debug
}

// ProjectedBlock занятый диапазон на дату запроса
type ProjectedBlock struct {
	BookingID      int64
	Status         domain.BookingStatus
	OriginalStart  time.Time
	OriginalEnd    time.Time
	ProjectedStart time.Time
	ProjectedEnd   time.Time
	Projected      bool // Применена проекция дневного окна
	FullDay        bool // Некорректный интервал, блокирует весь день
}
