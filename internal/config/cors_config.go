package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Cors struct {
	AllowedOriginList []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods    string   `mapstructure:"CORS_ALLOWED_METHODS"`
	AllowedHeaders    string   `mapstructure:"CORS_ALLOWED_HEADERS"`
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func setCorsDefaults(v *viper.Viper) {
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{})
	v.SetDefault("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Content-Type, Authorization, X-Refresh-Token")
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := make(AllowedOrigins, len(c.AllowedOriginList))
	for _, o := range c.AllowedOriginList {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (c Cors) GetAllowedMethods() string {
	return c.AllowedMethods
}

func (c Cors) GetAllowedHeaders() string {
	return c.AllowedHeaders
}
