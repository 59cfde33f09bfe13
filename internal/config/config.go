package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Code store backends.
const (
	CodeStoreDB    = "db"
	CodeStoreRedis = "redis"
)

// Config holds the runtime settings of the service.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	AutoMigrate    bool
	JWTSecret      string
	JWTTTL         time.Duration
	RabbitMQURL    string
	CodeStore      string
	RedisURL       string
	CodeTTL        time.Duration
	LogLevel       string
	LogFormat      string
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "yamdb.db")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CODE_STORE", CodeStoreDB)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CONFIRMATION_CODE_TTL", 24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()
}

// Load reads the configuration from v, which should already carry defaults
// and any bound flags.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		CodeStore:      strings.ToLower(v.GetString("CODE_STORE")),
		RedisURL:       v.GetString("REDIS_URL"),
		CodeTTL:        v.GetDuration("CONFIRMATION_CODE_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CodeStore {
	case CodeStoreDB, CodeStoreRedis:
	default:
		return fmt.Errorf("unsupported CODE_STORE %q", c.CodeStore)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.CodeTTL <= 0 {
		return fmt.Errorf("CONFIRMATION_CODE_TTL must be positive")
	}
	return nil
}

// RequireSecret fails when no signing secret is configured. Commands that
// mint or check tokens call it; migrate does not need one.
func (c *Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
