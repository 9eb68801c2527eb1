package factory

import (
	"context"
	"fmt"

	"tracker-backend/internal/store/docstore"
	"tracker-backend/internal/store/memory"
	"tracker-backend/internal/store/relational"
	"tracker-backend/internal/store/types"
)

// NewStore 创建新的存储实例
func NewStore(ctx context.Context, cfg *types.Config) (types.Store, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		return relational.NewSQLite(cfg.SQLite)
	case "postgres":
		return relational.NewPostgres(cfg.Postgres)
	case "redis":
		return docstore.Open(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
