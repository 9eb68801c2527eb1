package docstore

import (
	"context"
	"testing"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/storetest"
	"tracker-backend/internal/store/types"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, prefix), mr
}

func TestRedisStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) types.Store {
		s, _ := newStore(t, "")
		return s
	})
}

func TestKeyLayout(t *testing.T) {
	s, mr := newStore(t, "board")
	defer s.Close()
	ctx := context.Background()

	m := &models.TeamMember{Username: "Alice Johnson"}
	require.NoError(t, s.CreateMember(ctx, m))
	require.NoError(t, s.CreateTask(ctx, &models.Task{Goal: "Payroll", AssignedTo: models.TeamAssignee}))
	require.NoError(t, s.SaveProject(ctx, &models.Project{Name: "Close"}))
	require.NoError(t, s.SaveWhiteboardState(ctx, &models.WhiteboardState{State: []byte(`{"a":1}`)}))

	assert.True(t, mr.Exists("board:members"))
	assert.True(t, mr.Exists("board:tasks"))
	assert.True(t, mr.Exists("board:tasks:seq"))

	project, err := mr.Get("board:project")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Close"}`, project)

	state, err := mr.Get("board:whiteboard:state")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, state)
}

func TestDefaultPrefix(t *testing.T) {
	s, mr := newStore(t, "")
	defer s.Close()
	require.NoError(t, s.SaveProject(context.Background(), &models.Project{Name: "x"}))
	assert.True(t, mr.Exists(DefaultPrefix+":project"))
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), types.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())

	_, err = Open(context.Background(), types.RedisConfig{URL: "not a url"})
	assert.Error(t, err)
}

func TestUnavailableServer(t *testing.T) {
	s, mr := newStore(t, "")
	defer s.Close()
	mr.Close()

	_, err := s.ListTasks(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.Ping(context.Background()))
}
