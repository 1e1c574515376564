package domain

// Business validation constants
const (
	MinDurationHours            = 1
	MaxDurationHours            = 12
	SlotsPerDay                 = 24
	DefaultMaxSeriesDays        = 31
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	DateFormat      = "2006-01-02"          // YYYY-MM-DD
	DateTimeFormat  = "2006-01-02T15:04:05" // wall clock без смещения
	SlotLabelFormat = "3:04 PM"             // 12-часовой формат, "12:00 AM"
)

// InactiveStatuses список статусов неактивных бронирований
// Используется для фильтрации при подсчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRejected,
}

// ActiveStatuses список статусов бронирований, которые занимают площадку
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusConfirmed,
	StatusCompleted,
}
