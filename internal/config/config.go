// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/spf13/viper"
)

type Config struct {
	EnvVars `mapstructure:",squash"`
	Auth    `mapstructure:",squash"`
	Cors    `mapstructure:",squash"`
	Stores  `mapstructure:",squash"`
}

// Load reads .env when present, then the environment. Environment variables
// win over the file. The result is not validated; call Validate before
// serving traffic.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setEnvDefaults(v)
	setAuthDefaults(v)
	setCorsDefaults(v)
	setStoreDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("[config.Load] %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem at once, each wrapped in ErrConfig.
func (c *Config) Validate() error {
	var problems []string
	problems = append(problems, c.EnvVars.validate()...)
	problems = append(problems, c.Auth.validate(c.IsProduction())...)
	problems = append(problems, c.Stores.validate()...)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", autherrors.ErrConfig, strings.Join(problems, "; "))
}
