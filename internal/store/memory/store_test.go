package memory

import (
	"context"
	"testing"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/storetest"
	"tracker-backend/internal/store/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) types.Store {
		return NewStore()
	})
}

func TestReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	task := &models.Task{Goal: "Payroll", AssignedTo: models.TeamAssignee}
	require.NoError(t, s.CreateTask(ctx, task))
	task.Goal = "changed by caller"

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payroll", got.Goal)

	got.Goal = "changed again"
	again, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payroll", again.Goal)
}

func TestCreateTaskUnknownAssignee(t *testing.T) {
	s := NewStore()
	id := uint(7)
	err := s.CreateTask(context.Background(), &models.Task{AssignedTo: "ghost", AssigneeID: &id})
	assert.ErrorIs(t, err, types.ErrNotFound)
}
