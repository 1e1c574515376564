package get_available_slots

import "errors"

var (
	// ErrSpaceNotFound возвращается, когда площадка не найдена
	ErrSpaceNotFound = errors.New("get_available_slots: space not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInvalidDate возвращается, когда дата не передана
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidDuration возвращается, когда длительность вне диапазона [1, 12] часов
	ErrInvalidDuration = errors.New("get_available_slots: invalid duration")

	// ErrStoreUnavailable возвращается, когда хранилище недоступно после всех повторов
	ErrStoreUnavailable = errors.New("get_available_slots: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
