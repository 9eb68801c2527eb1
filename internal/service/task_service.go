package service

import (
	"context"
	"fmt"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
)

type TaskService struct {
	store types.Store
	log   zerolog.Logger
}

func NewTaskService(store types.Store, logger *logger.Logger) *TaskService {
	return &TaskService{
		store: store,
		log:   logger.GetLogger("task-service"),
	}
}

func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create stores a new task. task.AssignedTo names the assignee and defaults
// to the team.
func (s *TaskService) Create(ctx context.Context, task *models.Task) error {
	to, err := resolveAssignee(ctx, s.store, task.AssignedTo)
	if err != nil {
		return err
	}
	task.ID = 0
	task.Assign(to)

	if err := s.store.CreateTask(ctx, task); err != nil {
		return err
	}

	s.log.Debug().
		Uint("id", task.ID).
		Str("assigned_to", task.AssignedTo).
		Msg("Task created")
	return nil
}

// Update applies the patch. assignedTo, when set, is resolved like on
// create. It reports whether the task exists.
func (s *TaskService) Update(ctx context.Context, id uint, patch *models.TaskPatch, assignedTo *string) (bool, error) {
	if assignedTo != nil {
		to, err := resolveAssignee(ctx, s.store, *assignedTo)
		if err != nil {
			return false, err
		}
		patch.Assignee = &to
	}

	n, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the task, returning types.ErrNotFound when it does not exist.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	n, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}
	s.log.Debug().Uint("id", id).Msg("Task deleted")
	return nil
}
