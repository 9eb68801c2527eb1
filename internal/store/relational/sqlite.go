package relational

import (
	"fmt"
	"os"
	"path/filepath"

	"tracker-backend/internal/store/types"

	"github.com/glebarez/sqlite"
)

const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// NewSQLite 创建SQLite存储实例
func NewSQLite(cfg types.SQLiteConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	store, err := New(sqlite.Open(cfg.Path + sqlitePragmas))
	if err != nil {
		return nil, err
	}

	// 单连接写入，避免事务升级锁时的 SQLITE_BUSY
	sqlDB, err := store.db.DB()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("getting database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return store, nil
}
