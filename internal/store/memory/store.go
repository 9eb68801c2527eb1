package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
)

// Store keeps every collection in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type Store struct {
	tasks     map[uint]*models.Task
	members   map[uint]*models.TeamMember
	snapshots map[uint]*models.WhiteboardSnapshot
	project   *models.Project
	state     *models.WhiteboardState

	lastTaskID     uint
	lastMemberID   uint
	lastSnapshotID uint
	mu             sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		tasks:     make(map[uint]*models.Task),
		members:   make(map[uint]*models.TeamMember),
		snapshots: make(map[uint]*models.WhiteboardSnapshot),
	}
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		c.AssigneeID = &id
	}
	c.Assignee = nil
	return &c
}

func copyMember(m *models.TeamMember) *models.TeamMember {
	c := *m
	return &c
}

func copySnapshot(s *models.WhiteboardSnapshot) *models.WhiteboardSnapshot {
	c := *s
	c.StickyNotes = append(json.RawMessage(nil), s.StickyNotes...)
	return &c
}

// Task 操作
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.AssigneeID != nil {
		if _, ok := s.members[*task.AssigneeID]; !ok {
			return types.ErrNotFound
		}
	}
	s.lastTaskID++
	task.ID = s.lastTaskID
	s.tasks[task.ID] = copyTask(task)
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if task, ok := s.tasks[id]; ok {
		return copyTask(task), nil
	}
	return nil, types.ErrNotFound
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, copyTask(task))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uint, patch *models.TaskPatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return 0, nil
	}
	if patch.Assignee != nil && patch.Assignee.ID != nil {
		if _, ok := s.members[*patch.Assignee.ID]; !ok {
			return 0, types.ErrNotFound
		}
	}
	patch.Apply(task)
	return 1, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return 0, nil
	}
	delete(s.tasks, id)
	return 1, nil
}

func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tasks)), nil
}

// TeamMember 操作
func (s *Store) CreateMember(ctx context.Context, member *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMemberID++
	member.ID = s.lastMemberID
	s.members[member.ID] = copyMember(member)
	return nil
}

func (s *Store) GetMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if member, ok := s.members[id]; ok {
		return copyMember(member), nil
	}
	return nil, types.ErrNotFound
}

func (s *Store) FindMemberByUsername(ctx context.Context, username string) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.TeamMember
	for _, m := range s.members {
		if m.Username != username {
			continue
		}
		switch {
		case best == nil,
			best.NotWorking && !m.NotWorking,
			best.NotWorking == m.NotWorking && m.ID < best.ID:
			best = m
		}
	}
	if best == nil {
		return nil, types.ErrNotFound
	}
	return copyMember(best), nil
}

func (s *Store) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]*models.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, copyMember(m))
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.members)), nil
}

func (s *Store) OffboardMember(ctx context.Context, id uint, to models.Assignee) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[id]
	if !ok {
		return 0, types.ErrNotFound
	}
	if to.ID != nil {
		if _, ok := s.members[*to.ID]; !ok {
			return 0, types.ErrNotFound
		}
	}

	var n int64
	for _, task := range s.tasks {
		if task.References(member) {
			task.Assign(to)
			n++
		}
	}
	member.NotWorking = true
	return n, nil
}

func (s *Store) DeleteMemberIfUnassigned(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[id]
	if !ok {
		return types.ErrNotFound
	}
	for _, task := range s.tasks {
		if task.References(member) {
			return types.ErrMemberAssigned
		}
	}
	delete(s.members, id)
	return nil
}

// 单例记录
func (s *Store) GetProject(ctx context.Context) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return nil, types.ErrNotFound
	}
	p := *s.project
	return &p, nil
}

func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project.ID = models.SingletonID
	p := *project
	s.project = &p
	return nil
}

func (s *Store) GetWhiteboardState(ctx context.Context) (*models.WhiteboardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, types.ErrNotFound
	}
	return &models.WhiteboardState{
		ID:    s.state.ID,
		State: append(json.RawMessage(nil), s.state.State...),
	}, nil
}

func (s *Store) SaveWhiteboardState(ctx context.Context, state *models.WhiteboardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.ID = models.SingletonID
	s.state = &models.WhiteboardState{
		ID:    state.ID,
		State: append(json.RawMessage(nil), state.State...),
	}
	return nil
}

// 白板快照
func (s *Store) CreateSnapshot(ctx context.Context, snapshot *models.WhiteboardSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now().UTC()
	}
	s.lastSnapshotID++
	snapshot.ID = s.lastSnapshotID
	s.snapshots[snapshot.ID] = copySnapshot(snapshot)
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context) (*models.WhiteboardSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.WhiteboardSnapshot
	for _, snap := range s.snapshots {
		if latest == nil || snap.Newer(latest) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, types.ErrNotFound
	}
	return copySnapshot(latest), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
