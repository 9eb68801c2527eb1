// Package docstore keeps every record as a JSON document in redis. Each
// collection is a hash keyed by id with an INCR counter for new ids;
// singletons are plain string keys. Multi-record updates run under
// WATCH/MULTI and are retried when a watched key changes.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "tracker"
	maxTxRetries  = 16
)

var codec = sonic.ConfigStd

type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an existing client. An empty prefix falls back to DefaultPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to the redis server named by cfg.URL.
func Open(ctx context.Context, cfg types.RedisConfig) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	s := New(redis.NewClient(opts), cfg.Prefix)
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *Store) tasksKey() string     { return s.key("tasks") }
func (s *Store) membersKey() string   { return s.key("members") }
func (s *Store) snapshotsKey() string { return s.key("snapshots") }
func (s *Store) projectKey() string   { return s.key("project") }
func (s *Store) stateKey() string     { return s.key("whiteboard", "state") }

func field(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *Store) nextID(ctx context.Context, collection string) (uint, error) {
	n, err := s.client.Incr(ctx, collection+":seq").Result()
	if err != nil {
		return 0, fmt.Errorf("allocating id: %w", err)
	}
	return uint(n), nil
}

// watch runs fn under WATCH on keys, retrying when the transaction is
// aborted by a concurrent write.
func (s *Store) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("transaction on %v: %w", keys, redis.TxFailedErr)
}

type getter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HVals(ctx context.Context, key string) *redis.StringSliceCmd
}

func getDoc[T any](ctx context.Context, g getter, key string, id uint) (*T, error) {
	raw, err := g.HGet(ctx, key, field(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc T
	if err := codec.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s document: %w", key, err)
	}
	return &doc, nil
}

func listDocs[T any](ctx context.Context, g getter, key string) ([]*T, error) {
	vals, err := g.HVals(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]*T, 0, len(vals))
	for _, v := range vals {
		var doc T
		if err := codec.UnmarshalFromString(v, &doc); err != nil {
			return nil, fmt.Errorf("decoding %s document: %w", key, err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

func (s *Store) requireMember(ctx context.Context, tx *redis.Tx, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := tx.HExists(ctx, s.membersKey(), field(*id)).Result()
	if err != nil {
		return fmt.Errorf("checking assignee: %w", err)
	}
	if !ok {
		return types.ErrNotFound
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	id, err := s.nextID(ctx, s.tasksKey())
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	task.ID = id
	doc, err := codec.Marshal(task)
	if err != nil {
		return fmt.Errorf("encoding task: %w", err)
	}

	err = s.watch(ctx, func(tx *redis.Tx) error {
		if err := s.requireMember(ctx, tx, task.AssigneeID); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.tasksKey(), field(id), doc)
			return nil
		})
		return err
	}, s.membersKey())
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	task, err := getDoc[models.Task](ctx, s.client, s.tasksKey(), id)
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return task, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	tasks, err := listDocs[models.Task](ctx, s.client, s.tasksKey())
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uint, patch *models.TaskPatch) (int64, error) {
	var n int64
	err := s.watch(ctx, func(tx *redis.Tx) error {
		n = 0
		task, err := getDoc[models.Task](ctx, tx, s.tasksKey(), id)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if patch.Assignee != nil {
			if err := s.requireMember(ctx, tx, patch.Assignee.ID); err != nil {
				return err
			}
		}
		patch.Apply(task)
		doc, err := codec.Marshal(task)
		if err != nil {
			return fmt.Errorf("encoding task: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.tasksKey(), field(id), doc)
			return nil
		})
		if err == nil {
			n = 1
		}
		return err
	}, s.tasksKey(), s.membersKey())
	if err != nil {
		return 0, fmt.Errorf("updating task: %w", err)
	}
	return n, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uint) (int64, error) {
	n, err := s.client.HDel(ctx, s.tasksKey(), field(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("deleting task: %w", err)
	}
	return n, nil
}

func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	n, err := s.client.HLen(ctx, s.tasksKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

func (s *Store) CreateMember(ctx context.Context, member *models.TeamMember) error {
	id, err := s.nextID(ctx, s.membersKey())
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	member.ID = id
	doc, err := codec.Marshal(member)
	if err != nil {
		return fmt.Errorf("encoding member: %w", err)
	}
	if err := s.client.HSet(ctx, s.membersKey(), field(id), doc).Err(); err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	member, err := getDoc[models.TeamMember](ctx, s.client, s.membersKey(), id)
	if err != nil {
		return nil, fmt.Errorf("querying member: %w", err)
	}
	return member, nil
}

func (s *Store) FindMemberByUsername(ctx context.Context, username string) (*models.TeamMember, error) {
	members, err := s.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	// members are id ordered, so the first active match wins
	var fallback *models.TeamMember
	for _, m := range members {
		if m.Username != username {
			continue
		}
		if !m.NotWorking {
			return m, nil
		}
		if fallback == nil {
			fallback = m
		}
	}
	if fallback == nil {
		return nil, fmt.Errorf("querying member by username: %w", types.ErrNotFound)
	}
	return fallback, nil
}

func (s *Store) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	members, err := listDocs[models.TeamMember](ctx, s.client, s.membersKey())
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	n, err := s.client.HLen(ctx, s.membersKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}
	return n, nil
}

func (s *Store) OffboardMember(ctx context.Context, id uint, to models.Assignee) (int64, error) {
	var reassigned int64
	err := s.watch(ctx, func(tx *redis.Tx) error {
		reassigned = 0
		member, err := getDoc[models.TeamMember](ctx, tx, s.membersKey(), id)
		if err != nil {
			return fmt.Errorf("querying member: %w", err)
		}
		if err := s.requireMember(ctx, tx, to.ID); err != nil {
			return err
		}
		tasks, err := listDocs[models.Task](ctx, tx, s.tasksKey())
		if err != nil {
			return fmt.Errorf("querying tasks: %w", err)
		}

		updates := make([]any, 0)
		for _, task := range tasks {
			if !task.References(member) {
				continue
			}
			task.Assign(to)
			doc, err := codec.Marshal(task)
			if err != nil {
				return fmt.Errorf("encoding task: %w", err)
			}
			updates = append(updates, field(task.ID), doc)
		}
		member.NotWorking = true
		memberDoc, err := codec.Marshal(member)
		if err != nil {
			return fmt.Errorf("encoding member: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(updates) > 0 {
				pipe.HSet(ctx, s.tasksKey(), updates...)
			}
			pipe.HSet(ctx, s.membersKey(), field(id), memberDoc)
			return nil
		})
		if err == nil {
			reassigned = int64(len(updates) / 2)
		}
		return err
	}, s.tasksKey(), s.membersKey())
	if err != nil {
		return 0, fmt.Errorf("offboarding member: %w", err)
	}
	return reassigned, nil
}

func (s *Store) DeleteMemberIfUnassigned(ctx context.Context, id uint) error {
	err := s.watch(ctx, func(tx *redis.Tx) error {
		member, err := getDoc[models.TeamMember](ctx, tx, s.membersKey(), id)
		if err != nil {
			return err
		}
		tasks, err := listDocs[models.Task](ctx, tx, s.tasksKey())
		if err != nil {
			return fmt.Errorf("querying tasks: %w", err)
		}
		for _, task := range tasks {
			if task.References(member) {
				return types.ErrMemberAssigned
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, s.membersKey(), field(id))
			return nil
		})
		return err
	}, s.tasksKey(), s.membersKey())
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context) (*models.Project, error) {
	raw, err := s.client.Get(ctx, s.projectKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("querying project: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	var project models.Project
	if err := codec.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	project.ID = models.SingletonID
	return &project, nil
}

func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	project.ID = models.SingletonID
	doc, err := codec.Marshal(project)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}
	if err := s.client.Set(ctx, s.projectKey(), doc, 0).Err(); err != nil {
		return fmt.Errorf("upserting project: %w", err)
	}
	return nil
}

// The whiteboard state is stored verbatim; it is already a JSON document.
func (s *Store) GetWhiteboardState(ctx context.Context) (*models.WhiteboardState, error) {
	raw, err := s.client.Get(ctx, s.stateKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("querying whiteboard state: %w", types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying whiteboard state: %w", err)
	}
	return &models.WhiteboardState{ID: models.SingletonID, State: raw}, nil
}

func (s *Store) SaveWhiteboardState(ctx context.Context, state *models.WhiteboardState) error {
	state.ID = models.SingletonID
	if err := s.client.Set(ctx, s.stateKey(), []byte(state.State), 0).Err(); err != nil {
		return fmt.Errorf("upserting whiteboard state: %w", err)
	}
	return nil
}

func (s *Store) CreateSnapshot(ctx context.Context, snapshot *models.WhiteboardSnapshot) error {
	id, err := s.nextID(ctx, s.snapshotsKey())
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	snapshot.ID = id
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now().UTC()
	}
	doc, err := codec.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.client.HSet(ctx, s.snapshotsKey(), field(id), doc).Err(); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context) (*models.WhiteboardSnapshot, error) {
	snaps, err := listDocs[models.WhiteboardSnapshot](ctx, s.client, s.snapshotsKey())
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	var latest *models.WhiteboardSnapshot
	for _, snap := range snaps {
		if latest == nil || snap.Newer(latest) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", types.ErrNotFound)
	}
	return latest, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
