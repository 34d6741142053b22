package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/pkg/errors"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultIssuer     = "go-social-auth"

	claimRoles = "roles"
	claimKind  = "typ"
)

// Config holds the signing material and lifetimes for both credential kinds.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Codec issues and verifies signed credentials. It holds no mutable state
// and is safe for concurrent use.
type Codec struct {
	signers map[Kind]Signer
	ttls    map[Kind]time.Duration
	issuer  string
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// NewCodec validates the signing material up front. A missing secret, or one
// secret shared by both kinds, is a configuration error.
func NewCodec(cfg Config, options ...CodecOption) (*Codec, error) {
	if cfg.AccessSecret == "" {
		return nil, autherrors.Wrapf(autherrors.ErrConfig, "[NewCodec] access token secret is not set")
	}
	if cfg.RefreshSecret == "" {
		return nil, autherrors.Wrapf(autherrors.ErrConfig, "[NewCodec] refresh token secret is not set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, autherrors.Wrapf(autherrors.ErrConfig, "[NewCodec] access and refresh secrets must differ")
	}

	c := &Codec{
		signers: map[Kind]Signer{
			KindAccess:  NewHMACSigner(cfg.AccessSecret),
			KindRefresh: NewHMACSigner(cfg.RefreshSecret),
		},
		ttls: map[Kind]time.Duration{
			KindAccess:  valueOr(cfg.AccessTTL, defaultAccessTTL),
			KindRefresh: valueOr(cfg.RefreshTTL, defaultRefreshTTL),
		},
		issuer:  cfg.Issuer,
		nowFunc: time.Now,
	}
	if c.issuer == "" {
		c.issuer = defaultIssuer
	}

	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured lifetime of kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	return c.ttls[kind]
}

// Issue signs a new credential of the given kind carrying claim. Every call
// gets a fresh jti, so two credentials issued in the same second still differ.
func (c *Codec) Issue(claim Claim, kind Kind) (Issued, error) {
	if !kind.valid() {
		return Issued{}, errors.Errorf("[Codec.Issue] unknown credential kind %q", kind)
	}
	if claim.Subject == "" {
		return Issued{}, errors.New("[Codec.Issue] claim subject is required")
	}

	now := c.nowFunc().Truncate(time.Second)
	exp := now.Add(c.ttls[kind])
	jti := uuid.New().String()

	roles := claim.Roles
	if roles == nil {
		roles = []string{}
	}

	claims := jwt.MapClaims{
		"iss":      c.issuer,
		"sub":      claim.Subject,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
		"jti":      jti,
		claimKind:  string(kind),
		claimRoles: roles,
	}

	signed, err := c.signers[kind].Sign(claims)
	if err != nil {
		return Issued{}, errors.Wrapf(err, "[Codec.Issue] signing %s token", kind)
	}

	return Issued{
		Token:     signed,
		ID:        jti,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify checks signature, kind, issuer and expiry. Every failure, whatever
// its cause, is reported as ErrInvalidCredential.
func (c *Codec) Verify(tokenString string, kind Kind) (Verified, error) {
	return c.parse(tokenString, kind, true)
}

// Inspect checks only the signature and kind, leaving expiry unchecked. Used
// where the caller needs the claims of a credential that may have lapsed.
func (c *Codec) Inspect(tokenString string, kind Kind) (Verified, error) {
	return c.parse(tokenString, kind, false)
}

func (c *Codec) parse(tokenString string, kind Kind, validateTimes bool) (Verified, error) {
	signer, ok := c.signers[kind]
	if !ok {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.Errorf("unknown kind %q", kind))
	}
	if tokenString == "" {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.New("empty token"))
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
	}
	if validateTimes {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	} else {
		parserOptions = append(parserOptions, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.Parse(tokenString, signer.GetVerificationKey, parserOptions...)
	if err != nil {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.New("invalid claims"))
	}

	if typ, _ := claims[claimKind].(string); Kind(typ) != kind {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.Errorf("expected %s token, got %q", kind, typ))
	}
	if iss, _ := claims.GetIssuer(); iss != c.issuer {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.Errorf("unexpected issuer %q", iss))
	}

	sub, _ := claims.GetSubject()
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.New("missing sub or jti"))
	}

	v := Verified{
		Claim: Claim{Subject: sub, Roles: []string{}},
		ID:    jti,
		Kind:  kind,
	}
	if roles, ok := claims[claimRoles].([]any); ok {
		v.Claim.Roles = roleNames(roles)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		v.IssuedAt = iat.Time
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Verified{}, autherrors.Join(autherrors.ErrInvalidCredential, errors.New("missing exp"))
	}
	v.ExpiresAt = exp.Time

	return v, nil
}

// roleNames keeps the string entries of a decoded roles claim.
func roleNames(raw []any) []string {
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if name, ok := r.(string); ok && name != "" {
			roles = append(roles, name)
		}
	}
	return roles
}

func valueOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
