package relational

import (
	"context"
	"errors"
	"fmt"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// referencesMember matches tasks pointing at a member by id, or by username
// when the task carries no id.
const referencesMember = "assignee_id = ? OR (assignee_id IS NULL AND assigned_to = ?)"

// Store 通用GORM存储实现，sqlite 与 postgres 共用
type Store struct {
	db *gorm.DB
}

// New 创建GORM存储实例并迁移表结构
func New(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		store.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return store, nil
}

// initialize 初始化数据库
func (s *Store) initialize() error {
	err := s.db.AutoMigrate(
		&models.TeamMember{},
		&models.Task{},
		&models.Project{},
		&models.WhiteboardState{},
		&models.WhiteboardSnapshot{},
	)
	if err != nil {
		return fmt.Errorf("auto migrating tables: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}

// CreateTask 创建任务
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// GetTask 获取任务
func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("querying task: %w", notFound(err))
	}
	return &task, nil
}

// ListTasks 按插入顺序列出任务
func (s *Store) ListTasks(ctx context.Context) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	if err := s.db.WithContext(ctx).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask 更新任务中出现的字段
func (s *Store) UpdateTask(ctx context.Context, id uint, patch *models.TaskPatch) (int64, error) {
	db := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id)
	if patch.Empty() {
		var n int64
		if err := db.Count(&n).Error; err != nil {
			return 0, fmt.Errorf("counting task: %w", err)
		}
		return n, nil
	}

	result := db.Updates(patch.Columns())
	if result.Error != nil {
		return 0, fmt.Errorf("updating task: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteTask 删除任务
func (s *Store) DeleteTask(ctx context.Context, id uint) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting task: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Store) CountTasks(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

// CreateMember 创建成员
func (s *Store) CreateMember(ctx context.Context, member *models.TeamMember) error {
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

// GetMember 获取成员
func (s *Store) GetMember(ctx context.Context, id uint) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, fmt.Errorf("querying member: %w", notFound(err))
	}
	return &member, nil
}

// FindMemberByUsername 按用户名查找成员，优先在职成员
func (s *Store) FindMemberByUsername(ctx context.Context, username string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("not_working asc, id asc").
		First(&member).Error
	if err != nil {
		return nil, fmt.Errorf("querying member by username: %w", notFound(err))
	}
	return &member, nil
}

// ListMembers 列出所有成员
func (s *Store) ListMembers(ctx context.Context) ([]*models.TeamMember, error) {
	members := make([]*models.TeamMember, 0)
	if err := s.db.WithContext(ctx).Order("id asc").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	return members, nil
}

func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.TeamMember{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}
	return n, nil
}

// OffboardMember 在一个事务中转移成员的任务并标记为离职
func (s *Store) OffboardMember(ctx context.Context, id uint, to models.Assignee) (int64, error) {
	var reassigned int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		if err := tx.First(&member, id).Error; err != nil {
			return fmt.Errorf("querying member: %w", notFound(err))
		}

		result := tx.Model(&models.Task{}).
			Where(referencesMember, member.ID, member.Username).
			Updates(map[string]any{
				"assigned_to": to.Name,
				"assignee_id": to.ID,
			})
		if result.Error != nil {
			return fmt.Errorf("reassigning tasks: %w", result.Error)
		}
		reassigned = result.RowsAffected

		if err := tx.Model(&member).Update("not_working", true).Error; err != nil {
			return fmt.Errorf("marking member not working: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reassigned, nil
}

// DeleteMemberIfUnassigned 删除没有任务的成员
func (s *Store) DeleteMemberIfUnassigned(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		if err := tx.First(&member, id).Error; err != nil {
			return fmt.Errorf("querying member: %w", notFound(err))
		}

		var n int64
		err := tx.Model(&models.Task{}).
			Where(referencesMember, member.ID, member.Username).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("counting member tasks: %w", err)
		}
		if n > 0 {
			return types.ErrMemberAssigned
		}

		if err := tx.Delete(&member).Error; err != nil {
			return fmt.Errorf("deleting member: %w", err)
		}
		return nil
	})
}

// GetProject 获取项目信息
func (s *Store) GetProject(ctx context.Context) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, models.SingletonID).Error; err != nil {
		return nil, fmt.Errorf("querying project: %w", notFound(err))
	}
	return &project, nil
}

// SaveProject 保存项目信息
func (s *Store) SaveProject(ctx context.Context, project *models.Project) error {
	project.ID = models.SingletonID
	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		return fmt.Errorf("upserting project: %w", err)
	}
	return nil
}

// GetWhiteboardState 获取白板状态
func (s *Store) GetWhiteboardState(ctx context.Context) (*models.WhiteboardState, error) {
	var state models.WhiteboardState
	if err := s.db.WithContext(ctx).First(&state, models.SingletonID).Error; err != nil {
		return nil, fmt.Errorf("querying whiteboard state: %w", notFound(err))
	}
	return &state, nil
}

// SaveWhiteboardState 保存白板状态
func (s *Store) SaveWhiteboardState(ctx context.Context, state *models.WhiteboardState) error {
	state.ID = models.SingletonID
	if err := s.db.WithContext(ctx).Save(state).Error; err != nil {
		return fmt.Errorf("upserting whiteboard state: %w", err)
	}
	return nil
}

// CreateSnapshot 保存白板快照
func (s *Store) CreateSnapshot(ctx context.Context, snapshot *models.WhiteboardSnapshot) error {
	if err := s.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot 获取最新的白板快照
func (s *Store) LatestSnapshot(ctx context.Context) (*models.WhiteboardSnapshot, error) {
	var snapshot models.WhiteboardSnapshot
	err := s.db.WithContext(ctx).Order("updated_at desc, id desc").First(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", notFound(err))
	}
	return &snapshot, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting database handle: %w", err)
	}
	return sqlDB.Close()
}
