package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvDev  = "DEV"
	EnvProd = "PROD"
)

type EnvVars struct {
	AppName  string `mapstructure:"APP_NAME"`  // Shown in the startup banner and log lines
	Env      string `mapstructure:"APP_ENV"`   // DEV or PROD
	Port     string `mapstructure:"PORT"`      // Listen port, with or without a leading colon
	LogLevel string `mapstructure:"LOG_LEVEL"` // zerolog level name
}

func setEnvDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Social Auth")
	v.SetDefault("APP_ENV", EnvDev)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
}

func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return fmt.Sprintf(":%s", e.Port)
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Env)
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == EnvProd
}

func (e EnvVars) validate() []string {
	var problems []string
	if env := e.GetEnv(); env != EnvDev && env != EnvProd {
		problems = append(problems, fmt.Sprintf("APP_ENV must be %s or %s, got %q", EnvDev, EnvProd, e.Env))
	}
	if strings.TrimPrefix(e.Port, ":") == "" {
		problems = append(problems, "PORT must be set")
	}
	return problems
}
