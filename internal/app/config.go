package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CLIENTCONTACTS"

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Otel     OtelConfig     `mapstructure:"otel"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	// Driver is one of postgres, sqlite or memory.
	Driver      string `mapstructure:"driver"`
	// AutoMigrate creates missing tables when serve starts.
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	// Migrator is gorm (AutoMigrate) or goose (embedded versioned SQL).
	Migrator    string `mapstructure:"migrator"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig enables the shared code-generation lock when Addr is set.
type RedisConfig struct {
	Addr    string        `mapstructure:"addr"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// MetricsConfig exposes Prometheus text metrics on GET /metrics when Enabled.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.mode", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.auto_migrate", true)
	v.SetDefault("storage.migrator", "gorm")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "clientcontacts")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("sqlite.path", "clientcontacts.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.lock_ttl", 5*time.Second)
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "clientcontacts")
	v.SetDefault("otel.exporter", "stdout")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
	v.SetDefault("metrics.enabled", true)
}

// LoadConfig reads defaults, then the config file, then CLIENTCONTACTS_* environment
// variables. With an empty path a clientcontacts.yaml in the working directory is used if
// present.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("clientcontacts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres, sqlite or memory, got %q", c.Storage.Driver)
	}
	switch c.Storage.Migrator {
	case "", "gorm", "goose":
	default:
		return fmt.Errorf("storage.migrator must be gorm or goose, got %q", c.Storage.Migrator)
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	if c.Storage.Driver == "sqlite" && strings.TrimSpace(c.Sqlite.Path) == "" {
		return errors.New("sqlite.path is required for the sqlite driver")
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return errors.New("redis.lock_ttl must be positive")
	}
	return nil
}
