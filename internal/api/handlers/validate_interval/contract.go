package validate_interval

import (
	"context"

	validateInterval "github.com/m04kA/SMC-VenueService/internal/usecase/validate_interval"
)

type ValidateIntervalUseCase interface {
	Execute(ctx context.Context, req *validateInterval.Request) (*validateInterval.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
