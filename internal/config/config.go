package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageLocal  = "local"
	StorageRemote = "remote"
	StorageHybrid = "hybrid"
	StorageMemory = "memory"
)

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required|isNumber"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type StorageConfig struct {
	Mode        string `mapstructure:"mode" validate:"required|in:local,remote,hybrid,memory"`
	LocalDBPath string `mapstructure:"local_db_path"`
}

type StreaksConfig struct {
	Timezone          string `mapstructure:"timezone" validate:"required"`
	ConsistencyWindow int    `mapstructure:"consistency_window" validate:"required|min:1|max:366"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" validate:"in:trace,debug,info,warn,warning,error,fatal"`
	JSON     bool   `mapstructure:"json"`
	File     string `mapstructure:"file"`
	ToStdout bool   `mapstructure:"to_stdout"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	SizeMB  int           `mapstructure:"size_mb" validate:"min:1"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests" validate:"min:1"`
	Window   time.Duration `mapstructure:"window"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Streaks   StreaksConfig   `mapstructure:"streaks"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

var envBindings = map[string]string{
	"server.port":                "PORT",
	"db.host":                    "DB_HOST",
	"db.port":                    "DB_PORT",
	"db.user":                    "DB_USER",
	"db.password":                "DB_PASSWORD",
	"db.name":                    "DB_NAME",
	"redis.enabled":              "REDIS_ENABLED",
	"redis.host":                 "REDIS_HOST",
	"redis.port":                 "REDIS_PORT",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
	"storage.mode":               "STORAGE_MODE",
	"storage.local_db_path":      "LOCAL_DB_PATH",
	"streaks.timezone":           "STREAK_TIMEZONE",
	"streaks.consistency_window": "CONSISTENCY_WINDOW",
	"log.level":                  "LOG_LEVEL",
	"log.json":                   "LOG_JSON",
	"log.file":                   "LOG_FILE",
	"log.to_stdout":              "LOG_TO_STDOUT",
	"cache.enabled":              "CACHE_ENABLED",
	"cache.size_mb":              "CACHE_SIZE_MB",
	"cache.ttl":                  "CACHE_TTL",
	"rate_limit.enabled":         "RATE_LIMIT_ENABLED",
	"rate_limit.requests":        "RATE_LIMIT_REQUESTS",
	"rate_limit.window":          "RATE_LIMIT_WINDOW",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "kanso_user")
	v.SetDefault("db.name", "kanso_db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("storage.mode", StorageLocal)
	v.SetDefault("storage.local_db_path", "kanso.db")
	v.SetDefault("streaks.timezone", "UTC")
	v.SetDefault("streaks.consistency_window", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size_mb", 16)
	v.SetDefault("cache.ttl", 30*time.Minute)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load reads the optional env files, then the process environment.
// Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) Validate() error {
	sections := []any{&c.Server, &c.Storage, &c.Streaks, &c.Log, &c.Cache, &c.RateLimit}
	for _, s := range sections {
		v := validate.Struct(s)
		if !v.Validate() {
			return fmt.Errorf("config: %s", v.Errors.One())
		}
	}

	if _, err := time.LoadLocation(c.Streaks.Timezone); err != nil {
		return fmt.Errorf("config: unknown STREAK_TIMEZONE %q: %w", c.Streaks.Timezone, err)
	}

	switch c.Storage.Mode {
	case StorageLocal, StorageHybrid:
		if strings.TrimSpace(c.Storage.LocalDBPath) == "" {
			return errors.New("config: LOCAL_DB_PATH is required for local storage")
		}
	}
	return nil
}
