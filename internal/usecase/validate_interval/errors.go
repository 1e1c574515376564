package validate_interval

import "errors"

var (
	// ErrSpaceNotFound возвращается, когда площадка не найдена
	ErrSpaceNotFound = errors.New("validate_interval: space not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("validate_interval: invalid input data")

	// ErrInvalidRange возвращается, когда начало не раньше окончания
	ErrInvalidRange = errors.New("validate_interval: start must be before end")

	// ErrStoreUnavailable возвращается, когда хранилище недоступно после всех повторов
	ErrStoreUnavailable = errors.New("validate_interval: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("validate_interval: internal error")
)
