package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Cache    CacheConfig    `koanf:"cache"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Player   PlayerConfig   `koanf:"player"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string     `koanf:"host"`
	Port    int        `koanf:"port"`
	Mode    string     `koanf:"mode"`
	Timeout string     `koanf:"timeout"`
	CORS    CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// CacheConfig holds the Redis player cache settings.
type CacheConfig struct {
	Enabled   bool   `koanf:"enabled"`
	URL       string `koanf:"url"`
	TTL       string `koanf:"ttl"`
	PoolSize  int    `koanf:"pool_size"`
	KeyPrefix string `koanf:"key_prefix"`
}

// TTLDuration returns the parsed TTL. An unset TTL yields 0 (no expiry).
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
}

// PlayerConfig holds player API settings.
type PlayerConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__CACHE__KEY_PREFIX=pb overrides cache.key_prefix.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate normalizes values in place and checks supported values and
// cross-field constraints.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateLog(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}

	if c.Player.DefaultPageSize < 0 {
		return fmt.Errorf("invalid player.default_page_size %d: must not be negative", c.Player.DefaultPageSize)
	}
	if c.Player.DefaultPageSize == 0 {
		c.Player.DefaultPageSize = 3
	}

	return nil
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	// Whitespace-only durations mean unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)

	if err := validateOptionalDuration("server.timeout", c.Server.Timeout); err != nil {
		return err
	}
	return validateOptionalDuration("server.cors.max_age", c.Server.CORS.MaxAge)
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	if c.Database.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
	}

	if c.Database.Driver == "postgres" {
		pg := &c.Database.Postgres
		host := strings.TrimSpace(pg.Host)
		if host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
		}
		user := strings.TrimSpace(pg.User)
		if user == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		dbName := strings.TrimSpace(pg.DBName)
		if dbName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}

		sslMode := strings.TrimSpace(pg.SSLMode)
		switch sslMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		if c.Server.Mode == gin.ReleaseMode {
			switch sslMode {
			case "require", "verify-ca", "verify-full":
			default:
				return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", pg.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
			}
		}

		pg.Host = host
		pg.User = user
		pg.DBName = dbName
		pg.SSLMode = sslMode
	}

	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)
	return validateOptionalDuration("database.pool.conn_max_lifetime", c.Database.Pool.ConnMaxLifetime)
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (c *Config) validateCache() error {
	c.Cache.TTL = strings.TrimSpace(c.Cache.TTL)
	c.Cache.URL = strings.TrimSpace(c.Cache.URL)
	c.Cache.KeyPrefix = strings.TrimSpace(c.Cache.KeyPrefix)

	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.URL == "" {
		return fmt.Errorf("cache.url is required when the cache is enabled")
	}
	if !strings.HasPrefix(c.Cache.URL, "redis://") && !strings.HasPrefix(c.Cache.URL, "rediss://") {
		return fmt.Errorf("invalid cache.url %q: must start with redis:// or rediss://", c.Cache.URL)
	}
	if err := validateOptionalDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}
	if c.Cache.PoolSize < 0 {
		return fmt.Errorf("invalid cache.pool_size %d: must not be negative", c.Cache.PoolSize)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	path := strings.TrimSpace(c.Metrics.Path)
	if path == "" {
		path = "/metrics"
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("invalid metrics.path %q: must start with '/'", c.Metrics.Path)
	}
	if path == "/health" || strings.HasPrefix(path, "/rest/") || path == "/rest" {
		return fmt.Errorf("invalid metrics.path %q: conflicts with an application route", c.Metrics.Path)
	}
	c.Metrics.Path = path
	c.Metrics.Namespace = strings.TrimSpace(c.Metrics.Namespace)
	return nil
}

// validateOptionalDuration accepts an empty value or a positive Go duration.
func validateOptionalDuration(name, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a valid duration (e.g. \"24h\", \"3600s\"): %w", name, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return nil
}
