package list_spaces

import (
	"context"

	"github.com/m04kA/SMC-VenueService/internal/service/spaces/models"
)

type SpaceService interface {
	List(ctx context.Context) (*models.SpaceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
