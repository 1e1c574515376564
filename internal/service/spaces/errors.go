package spaces

import "errors"

var (
	// ErrSpaceNotFound возвращается, когда площадка не найдена или неактивна
	ErrSpaceNotFound = errors.New("spaces: space not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("spaces: internal error")
)
