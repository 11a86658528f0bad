package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/units"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Gemini      GeminiConfig    `mapstructure:"gemini"`
	AI          AIConfig        `mapstructure:"ai"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Remote      RemoteConfig    `mapstructure:"remote"`
	Sync        SyncConfig      `mapstructure:"sync"`
	Units       UnitsConfig     `mapstructure:"units"`
	Log         LogConfig       `mapstructure:"log"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`

	// Seed loads the built-in sample recipes, or SeedFile when set, into
	// an empty store on startup.
	Seed     bool   `mapstructure:"seed"`
	SeedFile string `mapstructure:"seed_file"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

// GeminiConfig configures the model client. An empty APIKey disables AI
// parsing; the heuristic parser is used instead.
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AIConfig gates model calls.
type AIConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// RemoteConfig is the redis store used as the sync target.
type RemoteConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type SyncConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type UnitsConfig struct {
	DefaultSystem string `mapstructure:"default_system"`
}

type LogConfig struct {
	Dir  string `mapstructure:"dir"`
	Mode string `mapstructure:"mode"`
}

// Load reads .env (if present), defaults and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app.seed":             "SEED_SAMPLES",
		"gemini.api_key":       "GEMINI_API_KEY",
		"gemini.model":         "GEMINI_MODEL",
		"gemini.base_url":      "GEMINI_BASE_URL",
		"cache.enabled":        "CACHE_ENABLED",
		"rate_limit.enabled":   "RATE_LIMIT_ENABLED",
		"rate_limit.requests":  "RATE_LIMIT_REQUESTS",
		"rate_limit.window":    "RATE_LIMIT_WINDOW",
		"storage.driver":       "STORAGE_DRIVER",
		"storage.path":         "DATABASE_PATH",
		"remote.enabled":       "REMOTE_ENABLED",
		"remote.addr":          "REDIS_ADDR",
		"remote.password":      "REDIS_PASSWORD",
		"server.port":          "PORT",
		"units.default_system": "UNIT_SYSTEM",
		"dedup_window":         "DEDUP_WINDOW",
		"log_level":            "LOG_LEVEL",
		"log.mode":             "LOG_MODE",
		"log.dir":              "LOG_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskedAPIKey is the key as it may appear in logs.
func (c *Config) MaskedAPIKey() string {
	return common.MaskSecret(c.Gemini.APIKey)
}

// DefaultSystem returns the configured unit system.
func (c *Config) DefaultSystem() units.System {
	s, _ := units.ParseSystem(c.Units.DefaultSystem)
	return s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "cooking")
	v.SetDefault("app.seed", true)
	v.SetDefault("app.seed_file", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "75s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-pro")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.max_tokens", 4096)
	v.SetDefault("gemini.timeout", "60s")

	v.SetDefault("ai.requests_per_minute", 30)
	v.SetDefault("ai.burst", 5)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "data/recipes.db")

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.addr", "localhost:6379")
	v.SetDefault("remote.password", "")
	v.SetDefault("remote.db", 0)
	v.SetDefault("remote.prefix", "cooking")

	v.SetDefault("sync.concurrency", 4)

	v.SetDefault("units.default_system", string(units.Metric))

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.mode", "")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	if _, ok := units.ParseSystem(config.Units.DefaultSystem); !ok {
		return fmt.Errorf("unknown unit system %q", config.Units.DefaultSystem)
	}

	switch config.Storage.Driver {
	case DriverSQLite:
		if strings.TrimSpace(config.Storage.Path) == "" {
			return fmt.Errorf("sqlite storage path is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Remote.Enabled && strings.TrimSpace(config.Remote.Addr) == "" {
		return fmt.Errorf("remote address is required when remote is enabled")
	}

	if config.Sync.Concurrency < 1 {
		return fmt.Errorf("invalid sync concurrency")
	}

	return nil
}
