package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Map       MapConfig       `yaml:"map"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects the key/value substrate workouts are persisted to.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Key      string         `yaml:"key"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres DatabaseConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
}

type SQLiteConfig struct {
	Dir string `yaml:"dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MapConfig struct {
	Zoom int `yaml:"zoom"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name onto a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix TRAILMARK_:
//
//	TRAILMARK_SERVER_HOST, TRAILMARK_SERVER_PORT, TRAILMARK_LOG_LEVEL,
//	TRAILMARK_STORAGE_DRIVER, TRAILMARK_STORAGE_KEY, TRAILMARK_SQLITE_DIR,
//	TRAILMARK_DB_HOST, TRAILMARK_DB_PORT, TRAILMARK_DB_NAME,
//	TRAILMARK_DB_USER, TRAILMARK_DB_PASSWORD, TRAILMARK_DB_SSLMODE,
//	TRAILMARK_S3_BUCKET, TRAILMARK_S3_REGION, TRAILMARK_S3_PREFIX,
//	TRAILMARK_S3_ENDPOINT, TRAILMARK_S3_PATH_STYLE,
//	TRAILMARK_S3_ACCESS_KEY_ID, TRAILMARK_S3_SECRET_ACCESS_KEY,
//	TRAILMARK_MAP_ZOOM, TRAILMARK_TAILSCALE_ENABLED, TRAILMARK_MCP_ENABLED
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "workouts"
	}
	if cfg.Storage.SQLite.Dir == "" {
		cfg.Storage.SQLite.Dir = "data"
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = 5432
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 13
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "trailmark"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
}

func applyEnvOverrides(cfg *Config) {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setInt := func(env string, dst *int) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(env string, dst *bool) {
		if v := os.Getenv(env); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("TRAILMARK_SERVER_HOST", &cfg.Server.Host)
	setInt("TRAILMARK_SERVER_PORT", &cfg.Server.Port)
	setString("TRAILMARK_LOG_LEVEL", &cfg.Log.Level)

	setString("TRAILMARK_STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("TRAILMARK_STORAGE_KEY", &cfg.Storage.Key)
	setString("TRAILMARK_SQLITE_DIR", &cfg.Storage.SQLite.Dir)

	setString("TRAILMARK_DB_HOST", &cfg.Storage.Postgres.Host)
	setInt("TRAILMARK_DB_PORT", &cfg.Storage.Postgres.Port)
	setString("TRAILMARK_DB_NAME", &cfg.Storage.Postgres.Name)
	setString("TRAILMARK_DB_USER", &cfg.Storage.Postgres.User)
	setString("TRAILMARK_DB_PASSWORD", &cfg.Storage.Postgres.Password)
	setString("TRAILMARK_DB_SSLMODE", &cfg.Storage.Postgres.SSLMode)

	setString("TRAILMARK_S3_BUCKET", &cfg.Storage.S3.Bucket)
	setString("TRAILMARK_S3_REGION", &cfg.Storage.S3.Region)
	setString("TRAILMARK_S3_PREFIX", &cfg.Storage.S3.Prefix)
	setString("TRAILMARK_S3_ENDPOINT", &cfg.Storage.S3.Endpoint)
	setBool("TRAILMARK_S3_PATH_STYLE", &cfg.Storage.S3.PathStyle)
	setString("TRAILMARK_S3_ACCESS_KEY_ID", &cfg.Storage.S3.AccessKeyID)
	setString("TRAILMARK_S3_SECRET_ACCESS_KEY", &cfg.Storage.S3.SecretAccessKey)

	setInt("TRAILMARK_MAP_ZOOM", &cfg.Map.Zoom)
	setBool("TRAILMARK_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setBool("TRAILMARK_MCP_ENABLED", &cfg.MCP.Enabled)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 19 {
		return fmt.Errorf("map.zoom must be between 1 and 19, got %d", c.Map.Zoom)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLite.Dir == "" {
			return fmt.Errorf("storage.sqlite.dir is required")
		}
	case DriverPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if pg.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if pg.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, postgres, s3", c.Storage.Driver)
	}
	return nil
}
