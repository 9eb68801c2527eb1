package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ServerConfig 服务端配置
type ServerConfig struct {
	// 服务器配置
	Server struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		BasePath string `yaml:"base_path"`
		CORS     struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
	} `yaml:"server"`

	// 日志配置
	Log struct {
		Debug bool   `yaml:"debug"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	// 存储配置
	Storage struct {
		Type   string `yaml:"type"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
			DSN      string `yaml:"dsn"`
		} `yaml:"postgres"`
		Redis struct {
			URL    string `yaml:"url"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"storage"`

	// 链路追踪配置
	Telemetry struct {
		Enabled     bool   `yaml:"enabled"`
		ServiceName string `yaml:"service_name"`
		Endpoint    string `yaml:"endpoint"`
		File        string `yaml:"file"`
	} `yaml:"telemetry"`

	// 演示数据
	Seed struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"seed"`
}

// LoadServerConfig 加载服务端配置。path 为空或文件不存在时使用默认配置，
// 然后叠加环境变量。
func LoadServerConfig(path string, workspaceRoot string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path != "" {
		if err := readYAML(path, cfg); err != nil && !isNotExist(err) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	// 处理相对路径
	if err := cfg.resolveRelativePaths(workspaceRoot); err != nil {
		return nil, fmt.Errorf("resolving paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置。DATABASE_URL 按前缀选择存储类型：
// postgres:// 与 redis:// 为连接串，其他值视为 SQLite 文件路径。
func (c *ServerConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		switch {
		case strings.HasPrefix(v, "postgres://"), strings.HasPrefix(v, "postgresql://"):
			c.Storage.Type = "postgres"
			c.Storage.Postgres.DSN = v
		case strings.HasPrefix(v, "redis://"), strings.HasPrefix(v, "rediss://"):
			c.Storage.Type = "redis"
			c.Storage.Redis.URL = v
		default:
			c.Storage.Type = "sqlite"
			c.Storage.SQLite.Path = strings.TrimPrefix(v, "sqlite://")
		}
	}
	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		c.Storage.Type = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.Server.CORS.AllowedOrigins = origins
	}
	if v, ok := lookup("LOG_DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_DEBUG %q: %w", v, err)
		}
		c.Log.Debug = debug
	}
	if v, ok := lookup("LOG_FILE"); ok && v != "" {
		c.Log.File = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = v
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		c.Telemetry.ServiceName = v
	}
	if v, ok := lookup("SEED_DEMO_DATA"); ok && v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SEED_DEMO_DATA %q: %w", v, err)
		}
		c.Seed.Enabled = seed
	}
	return nil
}

// Validate 校验配置
func (c *ServerConfig) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/': %q", c.Server.BasePath)
	}
	for _, origin := range c.Server.CORS.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid server.cors.allowed_origins entry: %q", origin)
		}
	}

	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.dsn or storage.postgres.host is required")
		}
	case "redis":
		if c.Storage.Redis.URL == "" {
			return fmt.Errorf("storage.redis.url is required")
		}
	case "":
		return fmt.Errorf("storage.type is required")
	default:
		return fmt.Errorf("unknown storage.type: %s", c.Storage.Type)
	}
	return nil
}

// resolveRelativePaths 处理相对路径
func (c *ServerConfig) resolveRelativePaths(baseDir string) error {
	// 处理日志文件路径
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(baseDir, c.Log.File)
	}

	if c.Telemetry.File != "" && !filepath.IsAbs(c.Telemetry.File) {
		c.Telemetry.File = filepath.Join(baseDir, c.Telemetry.File)
	}

	// 处理SQLite数据库路径
	if c.Storage.Type == "sqlite" && c.Storage.SQLite.Path != "" && !filepath.IsAbs(c.Storage.SQLite.Path) {
		c.Storage.SQLite.Path = filepath.Join(baseDir, c.Storage.SQLite.Path)
	}

	return nil
}

// DefaultServerConfig 返回默认服务端配置
func DefaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{}

	// 服务器配置
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.BasePath = "/api"
	cfg.Server.CORS.AllowedOrigins = []string{"https://leewaller93.github.io"}

	// 日志配置
	cfg.Log.Debug = false
	cfg.Log.File = ""

	// 存储配置
	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLite.Path = "data/tracker.db"
	cfg.Storage.Postgres.Port = 5432
	cfg.Storage.Postgres.SSLMode = "disable"
	cfg.Storage.Redis.Prefix = "tracker"

	cfg.Telemetry.ServiceName = "tracker-backend"

	cfg.Seed.Enabled = true

	return cfg
}
