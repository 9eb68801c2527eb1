package relational

import (
	"fmt"

	"tracker-backend/internal/store/types"

	"gorm.io/driver/postgres"
)

// NewPostgres 创建PostgreSQL存储实例
func NewPostgres(cfg types.PostgresConfig) (*Store, error) {
	return New(postgres.Open(postgresDSN(cfg)))
}

// postgresDSN 优先使用完整连接串
func postgresDSN(cfg types.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, sslMode)
}
