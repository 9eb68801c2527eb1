// Package seed fills an empty store with the demo board, either in process
// or through a running server's API.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
)

// Seeder 在集合为空时写入演示数据
type Seeder struct {
	store types.Store
	log   zerolog.Logger
}

// NewSeeder 创建 Seeder
func NewSeeder(store types.Store, logger *logger.Logger) *Seeder {
	return &Seeder{
		store: store,
		log:   logger.GetLogger("seed"),
	}
}

// Run seeds every collection that is still empty. Members go first so the
// demo tasks can point at them by id.
func (s *Seeder) Run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) (bool, error)
	}{
		{"members", s.seedMembers},
		{"tasks", s.seedTasks},
		{"project", s.seedProject},
		{"whiteboard state", s.seedWhiteboard},
	}
	for _, step := range steps {
		seeded, err := step.fn(ctx)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", step.name, err)
		}
		if seeded {
			s.log.Info().Str("collection", step.name).Msg("Demo data seeded")
		}
	}
	return nil
}

func (s *Seeder) seedMembers(ctx context.Context) (bool, error) {
	n, err := s.store.CountMembers(ctx)
	if err != nil || n > 0 {
		return false, err
	}
	for _, m := range DemoMembers {
		member := m
		if err := s.store.CreateMember(ctx, &member); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Seeder) seedTasks(ctx context.Context) (bool, error) {
	n, err := s.store.CountTasks(ctx)
	if err != nil || n > 0 {
		return false, err
	}
	for _, d := range DemoTasks {
		task := d.Task()
		member, err := s.store.FindMemberByUsername(ctx, d.AssignedTo)
		switch {
		case err == nil:
			task.Assign(models.AssigneeFor(member))
		case errors.Is(err, types.ErrNotFound):
			task.Assign(models.Assignee{Name: d.AssignedTo})
		default:
			return false, err
		}
		if err := s.store.CreateTask(ctx, task); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Seeder) seedProject(ctx context.Context) (bool, error) {
	_, err := s.store.GetProject(ctx)
	if !errors.Is(err, types.ErrNotFound) {
		return false, err
	}
	return true, s.store.SaveProject(ctx, &models.Project{Name: ""})
}

func (s *Seeder) seedWhiteboard(ctx context.Context) (bool, error) {
	_, err := s.store.GetWhiteboardState(ctx)
	if !errors.Is(err, types.ErrNotFound) {
		return false, err
	}
	return true, s.store.SaveWhiteboardState(ctx, &models.WhiteboardState{State: json.RawMessage(`{}`)})
}
