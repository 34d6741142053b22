package config

import (
	"time"

	"github.com/jrsteele09/go-social-auth/internal/db"
	"github.com/spf13/viper"
)

type Stores struct {
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBQueryTimeout time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	RedisTimeout   time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

func setStoreDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_QUERY_TIMEOUT", "2s")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_TIMEOUT", "500ms")
}

func (s Stores) DBConfig() db.Config {
	return db.Config{
		URL:          s.DatabaseURL,
		MaxConns:     s.DBMaxConns,
		QueryTimeout: s.DBQueryTimeout,
	}
}

func (s Stores) validate() []string {
	var problems []string
	if s.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL must be set")
	}
	if s.RedisURL == "" {
		problems = append(problems, "REDIS_URL must be set")
	}
	if s.DBQueryTimeout <= 0 || s.RedisTimeout <= 0 {
		problems = append(problems, "DB_QUERY_TIMEOUT and REDIS_TIMEOUT must be positive")
	}
	return problems
}
