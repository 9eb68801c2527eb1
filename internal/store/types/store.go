package types

import (
	"context"
	"errors"

	"tracker-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrMemberAssigned is returned when removing a member that tasks still reference.
	ErrMemberAssigned = errors.New("member is assigned to tasks")
)

// Store 定义了存储层接口
type Store interface {
	// Task operations
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	ListTasks(ctx context.Context) ([]*models.Task, error)
	// UpdateTask applies the patch and returns the number of tasks matched.
	UpdateTask(ctx context.Context, id uint, patch *models.TaskPatch) (int64, error)
	DeleteTask(ctx context.Context, id uint) (int64, error)
	CountTasks(ctx context.Context) (int64, error)

	// Team member operations
	CreateMember(ctx context.Context, member *models.TeamMember) error
	GetMember(ctx context.Context, id uint) (*models.TeamMember, error)
	// FindMemberByUsername prefers an active member, then the lowest id.
	FindMemberByUsername(ctx context.Context, username string) (*models.TeamMember, error)
	ListMembers(ctx context.Context) ([]*models.TeamMember, error)
	CountMembers(ctx context.Context) (int64, error)
	// OffboardMember reassigns every task referencing the member to the
	// given assignee and marks the member not working, atomically. It
	// returns the number of reassigned tasks.
	OffboardMember(ctx context.Context, id uint, to models.Assignee) (int64, error)
	// DeleteMemberIfUnassigned removes the member unless a task references it.
	DeleteMemberIfUnassigned(ctx context.Context, id uint) error

	// Singletons
	GetProject(ctx context.Context) (*models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) error
	GetWhiteboardState(ctx context.Context) (*models.WhiteboardState, error)
	SaveWhiteboardState(ctx context.Context, state *models.WhiteboardState) error

	// Whiteboard snapshots
	CreateSnapshot(ctx context.Context, snapshot *models.WhiteboardSnapshot) error
	// LatestSnapshot returns the most recently updated snapshot, ties broken by id.
	LatestSnapshot(ctx context.Context) (*models.WhiteboardSnapshot, error)

	Ping(ctx context.Context) error
	// Close releases any resources held by the store
	Close() error
}

// Config 存储配置
type Config struct {
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	DSN      string `yaml:"dsn"`
}

type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}
