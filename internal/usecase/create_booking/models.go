package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID  int64     // ID пользователя из X-User-ID
	SpaceID int64     // ID площадки
	Start   time.Time // Начало (для серии: первый день и время начала окна)
	End     time.Time // Окончание (для серии: последний день и время окончания окна)
	Notes   *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	SpaceID   int64
	UserID    int64
	StartAt   time.Time
	EndAt     time.Time
	Status    domain.BookingStatus
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
