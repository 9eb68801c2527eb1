package service

import (
	"context"
	"errors"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
)

type ProjectService struct {
	store types.Store
	log   zerolog.Logger
}

func NewProjectService(store types.Store, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		store: store,
		log:   logger.GetLogger("project-service"),
	}
}

// Name returns the project name, or "" when none was saved.
func (s *ProjectService) Name(ctx context.Context) (string, error) {
	project, err := s.store.GetProject(ctx)
	if errors.Is(err, types.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

func (s *ProjectService) Rename(ctx context.Context, name string) error {
	if err := s.store.SaveProject(ctx, &models.Project{Name: name}); err != nil {
		return err
	}
	s.log.Info().Str("name", name).Msg("Project renamed")
	return nil
}
