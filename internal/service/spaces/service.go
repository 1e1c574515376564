package spaces

import (
	"context"
	"errors"
	"fmt"

	spaceRepo "github.com/m04kA/SMC-VenueService/internal/infra/storage/space"
	"github.com/m04kA/SMC-VenueService/internal/service/spaces/models"
)

// Service сервис каталога площадок
type Service struct {
	spaceRepo SpaceRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(spaceRepo SpaceRepository, logger Logger) *Service {
	return &Service{
		spaceRepo: spaceRepo,
		logger:    logger,
	}
}

// GetByID получает активную площадку по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SpaceResponse, error) {
	s.logger.Info("GetByID: fetching space id=%d", id)

	space, err := s.spaceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, spaceRepo.ErrSpaceNotFound) {
			s.logger.Warn("GetByID: space id=%d not found", id)
			return nil, ErrSpaceNotFound
		}
		s.logger.Error("GetByID: repository error for space id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSpace(space), nil
}

// List возвращает активные площадки, упорядоченные по названию
func (s *Service) List(ctx context.Context) (*models.SpaceListResponse, error) {
	spaces, err := s.spaceRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d spaces", len(spaces))
	return models.FromDomainSpaceList(spaces), nil
}
