// Package storetest holds the behaviour every types.Store backend must share.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store from open in every subtest.
func Run(t *testing.T, open func(t *testing.T) types.Store) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s types.Store)
	}{
		{"TaskLifecycle", testTaskLifecycle},
		{"UpdateTaskPartial", testUpdateTaskPartial},
		{"MemberLookup", testMemberLookup},
		{"OffboardReassigns", testOffboardReassigns},
		{"OffboardToTeam", testOffboardToTeam},
		{"OffboardMissing", testOffboardMissing},
		{"DeleteMember", testDeleteMember},
		{"Singletons", testSingletons},
		{"Snapshots", testSnapshots},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func member(t *testing.T, s types.Store, name string) *models.TeamMember {
	t.Helper()
	m := &models.TeamMember{Username: name, Email: "x@demo.com", Org: models.DefaultOrg}
	require.NoError(t, s.CreateMember(context.Background(), m))
	require.NotZero(t, m.ID)
	return m
}

func task(t *testing.T, s types.Store, goal string, to models.Assignee) *models.Task {
	t.Helper()
	tk := &models.Task{Phase: "Close", Goal: goal, Stage: "Outstanding"}
	tk.Assign(to)
	require.NoError(t, s.CreateTask(context.Background(), tk))
	require.NotZero(t, tk.ID)
	return tk
}

func testTaskLifecycle(t *testing.T, s types.Store) {
	ctx := context.Background()

	first := task(t, s, "Bank reconciliation", models.TeamAssigneeTarget())
	second := task(t, s, "Payroll", models.TeamAssigneeTarget())
	assert.Greater(t, second.ID, first.ID)

	got, err := s.GetTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bank reconciliation", got.Goal)
	assert.Equal(t, models.TeamAssignee, got.AssignedTo)
	assert.Nil(t, got.AssigneeID)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	n, err := s.CountTasks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	deleted, err := s.DeleteTask(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = s.DeleteTask(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)

	_, err = s.GetTask(ctx, first.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func testUpdateTaskPartial(t *testing.T, s types.Store) {
	ctx := context.Background()
	bob := member(t, s, "Bob Smith")
	tk := task(t, s, "Accruals", models.TeamAssigneeTarget())

	stage := "In Process"
	n, err := s.UpdateTask(ctx, tk.ID, &models.TaskPatch{Stage: &stage})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	to := models.AssigneeFor(bob)
	n, err = s.UpdateTask(ctx, tk.ID, &models.TaskPatch{Assignee: &to})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Accruals", got.Goal)
	assert.Equal(t, "In Process", got.Stage)
	assert.Equal(t, "Bob Smith", got.AssignedTo)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, bob.ID, *got.AssigneeID)

	n, err = s.UpdateTask(ctx, tk.ID, &models.TaskPatch{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.UpdateTask(ctx, tk.ID+100, &models.TaskPatch{Stage: &stage})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func testMemberLookup(t *testing.T, s types.Store) {
	ctx := context.Background()
	first := member(t, s, "Alice Johnson")
	second := member(t, s, "Alice Johnson")
	member(t, s, "Carol Lee")

	got, err := s.FindMemberByUsername(ctx, "Alice Johnson")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	// an active duplicate beats an offboarded one with a lower id
	_, err = s.OffboardMember(ctx, first.ID, models.TeamAssigneeTarget())
	require.NoError(t, err)
	got, err = s.FindMemberByUsername(ctx, "Alice Johnson")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = s.FindMemberByUsername(ctx, "Nobody")
	assert.ErrorIs(t, err, types.ErrNotFound)

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.True(t, members[0].NotWorking)
	assert.False(t, members[1].NotWorking)

	n, err := s.CountMembers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = s.GetMember(ctx, 999)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func testOffboardReassigns(t *testing.T, s types.Store) {
	ctx := context.Background()
	alice := member(t, s, "Alice Johnson")
	bob := member(t, s, "Bob Smith")

	a1 := task(t, s, "Close books", models.AssigneeFor(alice))
	// legacy row carrying only the display name
	a2 := task(t, s, "Audit prep", models.Assignee{Name: "Alice Johnson"})
	b1 := task(t, s, "Tax filing", models.AssigneeFor(bob))
	team := task(t, s, "Board pack", models.TeamAssigneeTarget())

	n, err := s.OffboardMember(ctx, alice.ID, models.AssigneeFor(bob))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, id := range []uint{a1.ID, a2.ID, b1.ID} {
		got, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Bob Smith", got.AssignedTo)
		require.NotNil(t, got.AssigneeID)
		assert.Equal(t, bob.ID, *got.AssigneeID)
	}
	got, err := s.GetTask(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamAssignee, got.AssignedTo)

	off, err := s.GetMember(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, off.NotWorking)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	for _, tk := range tasks {
		assert.False(t, tk.References(off), "task %d still references offboarded member", tk.ID)
	}
}

func testOffboardToTeam(t *testing.T, s types.Store) {
	ctx := context.Background()
	carol := member(t, s, "Carol Lee")
	tk := task(t, s, "Fixed assets", models.AssigneeFor(carol))

	n, err := s.OffboardMember(ctx, carol.ID, models.TeamAssigneeTarget())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TeamAssignee, got.AssignedTo)
	assert.Nil(t, got.AssigneeID)

	// offboarding twice reassigns nothing and still succeeds
	n, err = s.OffboardMember(ctx, carol.ID, models.TeamAssigneeTarget())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func testOffboardMissing(t *testing.T, s types.Store) {
	_, err := s.OffboardMember(context.Background(), 42, models.TeamAssigneeTarget())
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func testDeleteMember(t *testing.T, s types.Store) {
	ctx := context.Background()
	david := member(t, s, "David Kim")
	idle := member(t, s, "Erin Park")
	task(t, s, "Budget", models.AssigneeFor(david))

	err := s.DeleteMemberIfUnassigned(ctx, david.ID)
	assert.ErrorIs(t, err, types.ErrMemberAssigned)
	_, err = s.GetMember(ctx, david.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteMemberIfUnassigned(ctx, idle.ID))
	_, err = s.GetMember(ctx, idle.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = s.DeleteMemberIfUnassigned(ctx, idle.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// once offboarded to the team the member can go
	_, err = s.OffboardMember(ctx, david.ID, models.TeamAssigneeTarget())
	require.NoError(t, err)
	require.NoError(t, s.DeleteMemberIfUnassigned(ctx, david.ID))

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func testSingletons(t *testing.T, s types.Store) {
	ctx := context.Background()

	_, err := s.GetProject(ctx)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetWhiteboardState(ctx)
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, s.SaveProject(ctx, &models.Project{Name: "Q3 close"}))
	require.NoError(t, s.SaveProject(ctx, &models.Project{Name: "Q4 close"}))
	p, err := s.GetProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q4 close", p.Name)
	assert.Equal(t, models.SingletonID, p.ID)

	state := json.RawMessage(`{"shapes":[{"x":1}]}`)
	require.NoError(t, s.SaveWhiteboardState(ctx, &models.WhiteboardState{State: state}))
	require.NoError(t, s.SaveWhiteboardState(ctx, &models.WhiteboardState{State: json.RawMessage(`{"shapes":[]}`)}))
	ws, err := s.GetWhiteboardState(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shapes":[]}`, string(ws.State))
}

func testSnapshots(t *testing.T, s types.Store) {
	ctx := context.Background()

	_, err := s.LatestSnapshot(ctx)
	assert.ErrorIs(t, err, types.ErrNotFound)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := &models.WhiteboardSnapshot{CanvasImage: "data:a", StickyNotes: json.RawMessage(`[]`), UpdatedAt: at}
	second := &models.WhiteboardSnapshot{CanvasImage: "data:b", StickyNotes: json.RawMessage(`[{"text":"hi"}]`), UpdatedAt: at}
	require.NoError(t, s.CreateSnapshot(ctx, first))
	require.NoError(t, s.CreateSnapshot(ctx, second))

	// equal timestamps fall back to the id
	latest, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "data:b", latest.CanvasImage)
	assert.JSONEq(t, `[{"text":"hi"}]`, string(latest.StickyNotes))

	older := &models.WhiteboardSnapshot{CanvasImage: "data:c", StickyNotes: json.RawMessage(`[]`), UpdatedAt: at.Add(-time.Hour)}
	require.NoError(t, s.CreateSnapshot(ctx, older))
	latest, err = s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}
