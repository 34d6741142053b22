package config

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-social-auth/token"
	"github.com/spf13/viper"
)

const minProductionSecretLength = 32

type Auth struct {
	AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	TokenIssuer        string        `mapstructure:"TOKEN_ISSUER"`
	BcryptCost         int           `mapstructure:"BCRYPT_COST"`
	RevokeAllOnReplay  bool          `mapstructure:"REVOKE_ALL_ON_REPLAY"`

	CookieName   string `mapstructure:"COOKIE_NAME"`   // Name of the refresh credential cookie
	CookieDomain string `mapstructure:"COOKIE_DOMAIN"` // Empty means host-only
	CookiePath   string `mapstructure:"COOKIE_PATH"`   // Limits the cookie to the auth routes
	CookieSecure bool   `mapstructure:"COOKIE_SECURE"` // Must be true outside local development
}

func setAuthDefaults(v *viper.Viper) {
	v.SetDefault("ACCESS_TOKEN_SECRET", "")
	v.SetDefault("REFRESH_TOKEN_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("TOKEN_ISSUER", "go-social-auth")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REVOKE_ALL_ON_REPLAY", false)
	v.SetDefault("COOKIE_NAME", "refresh_token")
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_PATH", "/auth")
	v.SetDefault("COOKIE_SECURE", true)
}

// TokenConfig is the signing material handed to token.NewCodec.
func (a Auth) TokenConfig() token.Config {
	return token.Config{
		AccessSecret:  a.AccessTokenSecret,
		RefreshSecret: a.RefreshTokenSecret,
		AccessTTL:     a.AccessTokenTTL,
		RefreshTTL:    a.RefreshTokenTTL,
		Issuer:        a.TokenIssuer,
	}
}

// RefreshCookie returns a cookie template; callers fill in Value and expiry.
func (a Auth) RefreshCookie() http.Cookie {
	return http.Cookie{
		Name:     a.CookieName,
		Domain:   a.CookieDomain,
		Path:     a.CookiePath,
		Secure:   a.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a Auth) validate(production bool) []string {
	var problems []string
	if a.AccessTokenSecret == "" {
		problems = append(problems, "ACCESS_TOKEN_SECRET must be set")
	}
	if a.RefreshTokenSecret == "" {
		problems = append(problems, "REFRESH_TOKEN_SECRET must be set")
	}
	if a.AccessTokenSecret != "" && a.AccessTokenSecret == a.RefreshTokenSecret {
		problems = append(problems, "ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if a.AccessTokenTTL <= 0 || a.RefreshTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL and REFRESH_TOKEN_TTL must be positive")
	} else if a.AccessTokenTTL >= a.RefreshTokenTTL {
		problems = append(problems, "ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL")
	}
	if a.BcryptCost < 4 || a.BcryptCost > 31 {
		problems = append(problems, "BCRYPT_COST must be between 4 and 31")
	}
	if a.CookieName == "" {
		problems = append(problems, "COOKIE_NAME must be set")
	}
	if production {
		if len(a.AccessTokenSecret) < minProductionSecretLength || len(a.RefreshTokenSecret) < minProductionSecretLength {
			problems = append(problems, "token secrets must be at least 32 bytes in PROD")
		}
		if !a.CookieSecure {
			problems = append(problems, "COOKIE_SECURE must be true in PROD")
		}
	}
	return problems
}
