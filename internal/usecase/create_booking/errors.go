package create_booking

import "errors"

var (
	// ErrSpaceNotFound возвращается, когда площадка не найдена
	ErrSpaceNotFound = errors.New("create_booking: space not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidRange возвращается, когда начало не раньше окончания
	ErrInvalidRange = errors.New("create_booking: start must be before end")

	// ErrStartInPast возвращается при попытке забронировать прошедшее время
	ErrStartInPast = errors.New("create_booking: start is in the past")

	// ErrSeriesTooLong возвращается, когда серия охватывает больше дней, чем разрешено
	ErrSeriesTooLong = errors.New("create_booking: series is too long")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrStoreUnavailable возвращается, когда хранилище недоступно после всех повторов
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
