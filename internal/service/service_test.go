package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/memory"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	store      *memory.Store
	tasks      *TaskService
	team       *TeamService
	project    *ProjectService
	whiteboard *WhiteboardService
	status     *StatusService
}

func newServices() *services {
	store := memory.NewStore()
	log := logger.Nop()
	return &services{
		store:      store,
		tasks:      NewTaskService(store, log),
		team:       NewTeamService(store, log),
		project:    NewProjectService(store, log),
		whiteboard: NewWhiteboardService(store, log),
		status:     NewStatusService(store, "memory", log),
	}
}

func TestCreateTaskDefaultsToTeam(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	task := &models.Task{Goal: "Bank rec"}
	require.NoError(t, svc.tasks.Create(ctx, task))

	got, err := svc.store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamAssignee, got.AssignedTo)
	assert.Nil(t, got.AssigneeID)
}

func TestCreateTaskResolvesMember(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	alice, err := svc.team.Invite(ctx, "Alice Johnson", "alice.johnson@demo.com", "")
	require.NoError(t, err)

	task := &models.Task{Goal: "Payroll", AssignedTo: "Alice Johnson"}
	require.NoError(t, svc.tasks.Create(ctx, task))
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, alice.ID, *task.AssigneeID)

	// unknown names are kept as given
	loose := &models.Task{Goal: "Audit", AssignedTo: "Contractor"}
	require.NoError(t, svc.tasks.Create(ctx, loose))
	assert.Equal(t, "Contractor", loose.AssignedTo)
	assert.Nil(t, loose.AssigneeID)
}

func TestUpdateTask(t *testing.T) {
	svc := newServices()
	ctx := context.Background()
	bob, err := svc.team.Invite(ctx, "Bob Smith", "bob.smith@demo.com", "PHG")
	require.NoError(t, err)

	task := &models.Task{Goal: "Accruals"}
	require.NoError(t, svc.tasks.Create(ctx, task))

	stage := "Resolved"
	name := "Bob Smith"
	ok, err := svc.tasks.Update(ctx, task.ID, &models.TaskPatch{Stage: &stage}, &name)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resolved", got.Stage)
	assert.Equal(t, "Accruals", got.Goal)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, bob.ID, *got.AssigneeID)

	ok, err = svc.tasks.Update(ctx, 404, &models.TaskPatch{Stage: &stage}, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteTask(t *testing.T) {
	svc := newServices()
	ctx := context.Background()
	task := &models.Task{Goal: "Budget"}
	require.NoError(t, svc.tasks.Create(ctx, task))

	require.NoError(t, svc.tasks.Delete(ctx, task.ID))
	err := svc.tasks.Delete(ctx, task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInviteValidation(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	cases := []struct {
		username, email string
	}{
		{"", "a@b.co"},
		{"Alice", ""},
		{"Alice", "not-an-email"},
		{"Alice", "a b@c.io"},
		{"Alice", "a@b"},
	}
	for _, tc := range cases {
		_, err := svc.team.Invite(ctx, tc.username, tc.email, "")
		assert.ErrorIs(t, err, ErrInvalidInvite, "%q %q", tc.username, tc.email)
	}

	members, err := svc.team.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	m, err := svc.team.Invite(ctx, "Alice", "alice@demo.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOrg, m.Org)
	assert.False(t, m.NotWorking)

	m, err = svc.team.Invite(ctx, "Alice", "alice@other.org", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", m.Org)
}

func TestOffboard(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	alice, err := svc.team.Invite(ctx, "Alice Johnson", "alice@demo.com", "")
	require.NoError(t, err)
	_, err = svc.team.Invite(ctx, "Bob Smith", "bob@demo.com", "")
	require.NoError(t, err)

	for _, goal := range []string{"One", "Two"} {
		require.NoError(t, svc.tasks.Create(ctx, &models.Task{Goal: goal, AssignedTo: "Alice Johnson"}))
	}
	other := &models.Task{Goal: "Three", AssignedTo: "Bob Smith"}
	require.NoError(t, svc.tasks.Create(ctx, other))

	n, err := svc.team.Offboard(ctx, alice.ID, "Bob Smith")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	tasks, err := svc.tasks.List(ctx)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, "Bob Smith", task.AssignedTo)
	}

	got, err := svc.store.GetMember(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.NotWorking)

	_, err = svc.team.Offboard(ctx, 999, "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestOffboardOntoSelfKeepsTasks(t *testing.T) {
	svc := newServices()
	ctx := context.Background()
	carol, err := svc.team.Invite(ctx, "Carol Lee", "carol@demo.com", "")
	require.NoError(t, err)
	require.NoError(t, svc.tasks.Create(ctx, &models.Task{Goal: "Close", AssignedTo: "Carol Lee"}))

	n, err := svc.team.Offboard(ctx, carol.ID, "Carol Lee")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	err = svc.team.Remove(ctx, carol.ID)
	assert.ErrorIs(t, err, types.ErrMemberAssigned)
}

func TestRemove(t *testing.T) {
	svc := newServices()
	ctx := context.Background()
	david, err := svc.team.Invite(ctx, "David Kim", "david@demo.com", "")
	require.NoError(t, err)
	require.NoError(t, svc.tasks.Create(ctx, &models.Task{Goal: "Tax", AssignedTo: "David Kim"}))

	err = svc.team.Remove(ctx, david.ID)
	assert.True(t, errors.Is(err, types.ErrMemberAssigned))

	_, err = svc.team.Offboard(ctx, david.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.team.Remove(ctx, david.ID))

	members, err := svc.team.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	assert.ErrorIs(t, svc.team.Remove(ctx, david.ID), types.ErrNotFound)
}

func TestProjectName(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	name, err := svc.project.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", name)

	require.NoError(t, svc.project.Rename(ctx, "Test Client Lee Rule"))
	name, err = svc.project.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test Client Lee Rule", name)
}

func TestWhiteboardState(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	state, err := svc.whiteboard.State(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(state))

	require.NoError(t, svc.whiteboard.SaveState(ctx, json.RawMessage(`{"lines":[1,2]}`)))
	state, err = svc.whiteboard.State(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[1,2]}`, string(state))
}

func TestWhiteboardSnapshots(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	latest, err := svc.whiteboard.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = svc.whiteboard.SaveSnapshot(ctx, "", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	_, err = svc.whiteboard.SaveSnapshot(ctx, "data:x", nil)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	for _, notes := range []string{`null`, `false`, `""`, `0`, `-0.0`, ` 0 `} {
		_, err = svc.whiteboard.SaveSnapshot(ctx, "data:x", json.RawMessage(notes))
		assert.ErrorIs(t, err, ErrInvalidSnapshot, notes)
	}

	// freeze the clock so ordering falls back to ids
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.whiteboard.now = func() time.Time { return at }

	first, err := svc.whiteboard.SaveSnapshot(ctx, "data:first", json.RawMessage(`[]`))
	require.NoError(t, err)
	second, err := svc.whiteboard.SaveSnapshot(ctx, "data:second", json.RawMessage(`[{"id":1}]`))
	require.NoError(t, err)
	assert.Greater(t, second, first)

	latest, err = svc.whiteboard.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "data:second", latest.CanvasImage)
	assert.Equal(t, at, latest.UpdatedAt)
}

func TestWhiteboardSnapshotAcceptsTruthyNotes(t *testing.T) {
	svc := newServices()
	for _, notes := range []string{`{}`, `"note"`, `1`, `true`, `[]`} {
		_, err := svc.whiteboard.SaveSnapshot(context.Background(), "data:x", json.RawMessage(notes))
		assert.NoError(t, err, notes)
	}
}

func TestSystemStatus(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	alice, err := svc.team.Invite(ctx, "Alice", "alice@demo.com", "")
	require.NoError(t, err)
	_, err = svc.team.Invite(ctx, "Bob", "bob@demo.com", "")
	require.NoError(t, err)
	require.NoError(t, svc.tasks.Create(ctx, &models.Task{Goal: "a", AssignedTo: "Alice"}))
	require.NoError(t, svc.tasks.Create(ctx, &models.Task{Goal: "b"}))
	_, err = svc.team.Offboard(ctx, alice.ID, "")
	require.NoError(t, err)

	status, err := svc.status.GetSystemStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, status.Tasks)
	assert.EqualValues(t, 2, status.UnassignedTasks)
	assert.EqualValues(t, 2, status.Members)
	assert.EqualValues(t, 1, status.ActiveMembers)
	assert.Equal(t, "memory", status.Storage)

	assert.NoError(t, svc.status.Ping(ctx))
}
