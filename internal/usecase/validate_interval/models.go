package validate_interval

import (
	"time"

	"github.com/m04kA/SMC-VenueService/internal/domain"
)

// Request модель запроса на проверку интервала
type Request struct {
	SpaceID          int64
	Start            time.Time
	End              time.Time
	ExcludeBookingID *int64
}

// Response результат проверки
type Response struct {
	IsAvailable bool
	Conflicts   []Conflict
}

// Conflict конфликтующее бронирование
type Conflict struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status domain.BookingStatus
}
