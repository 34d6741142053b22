package auth

import (
	"context"
	"time"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/jrsteele09/go-social-auth/internal/metrics"
	"github.com/jrsteele09/go-social-auth/revocation"
	"github.com/jrsteele09/go-social-auth/sessions"
	"github.com/jrsteele09/go-social-auth/token"
	"github.com/jrsteele09/go-social-auth/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Operation names recorded in metrics and logs.
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpAuthenticate = "authenticate"
	OpRotate       = "rotate"
	OpLogout       = "logout"
)

// Repos holds all store dependencies for the Service
type Repos struct {
	Users       users.UserRepo   // Principal lookup and registration
	Sessions    sessions.Repo    // Durable refresh fingerprints
	Revocations revocation.Store // Denylist of revoked access credential ids
}

// Session is the credential pair handed to a client after login, registration
// or rotation.
type Session struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	User             *users.User
}

// RegisterRequest carries the fields needed to create a principal.
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// Service owns the session lifecycle: issuing credential pairs, rotating the
// refresh credential exactly once per use and revoking on logout. It keeps no
// session state of its own; every decision is made against the stores.
type Service struct {
	repos             Repos
	codec             *token.Codec
	metrics           *metrics.Metrics
	nowTime           func() time.Time
	bcryptCost        int
	revokeAllOnReplay bool
	dummyHash         string // compared against when the email is unknown
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithBcryptCost sets the cost used when hashing passwords at registration.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithRevokeAllOnReplay removes the principal's live session whenever a
// verified but already consumed refresh credential is presented. Under the
// single-session policy this also signs out a second device whose stale
// credential is replayed, so it is off by default.
//
// Two rotations racing with the same credential (a double submit, two tabs)
// count as a replay too: the losing call removes the session the winning call
// just saved, and the client has to log in again.
func WithRevokeAllOnReplay(enabled bool) ServiceOption {
	return func(s *Service) {
		s.revokeAllOnReplay = enabled
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, codec *token.Codec, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if repos.Revocations == nil {
		return nil, errors.New("[NewService] Revocations store is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] codec is required")
	}

	s := &Service{
		repos:      repos,
		codec:      codec,
		nowTime:    time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}

	for _, opt := range options {
		opt(s)
	}

	dummy, err := users.HashPassword("dummy-password-for-unknown-accounts", s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] hashing dummy password")
	}
	s.dummyHash = dummy

	return s, nil
}

// Register creates a principal with the default role and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (session *Session, err error) {
	defer s.observe(OpRegister, &err)

	email := users.NormaliseEmail(req.Email)
	if err := users.ValidateEmail(email); err != nil {
		return nil, invalidRequest(err, "[Service.Register]")
	}
	if err := users.ValidateUsername(req.Username); err != nil {
		return nil, invalidRequest(err, "[Service.Register]")
	}
	if err := users.ValidatePasswordStrength(req.Password); err != nil {
		return nil, invalidRequest(err, "[Service.Register]")
	}

	hash, err := users.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] hashing password")
	}

	user := &users.User{
		Email:        email,
		Username:     req.Username,
		PasswordHash: hash,
		Roles:        []users.RoleType{users.RoleUser},
		DateJoined:   s.nowTime().UTC(),
	}

	switch err := s.repos.Users.Create(ctx, user); {
	case err == nil:
	case errors.Is(err, users.ErrEmailExists):
		return nil, errors.Wrap(autherrors.ErrEmailExists, "[Service.Register]")
	case errors.Is(err, users.ErrUsernameExists):
		return nil, errors.Wrap(autherrors.ErrUsernameExists, "[Service.Register]")
	default:
		return nil, unavailable(err, "[Service.Register] creating user")
	}

	return s.issueSession(ctx, user, "[Service.Register]")
}

// Login checks the password and, only once it matches, the lock status. An
// unknown email costs the same bcrypt comparison as a known one.
func (s *Service) Login(ctx context.Context, email, password string) (session *Session, err error) {
	defer s.observe(OpLogin, &err)

	user, err := s.repos.Users.GetByEmail(ctx, users.NormaliseEmail(email))
	if errors.Is(err, users.ErrNotFound) {
		users.CheckPasswordHash(password, s.dummyHash)
		return nil, errors.Wrap(autherrors.ErrInvalidCredentials, "[Service.Login] unknown email")
	}
	if err != nil {
		return nil, unavailable(err, "[Service.Login] looking up user")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errors.Wrap(autherrors.ErrInvalidCredentials, "[Service.Login] password mismatch")
	}
	if user.Locked {
		return nil, errors.Wrap(autherrors.ErrAccountLocked, "[Service.Login]")
	}

	session, err = s.issueSession(ctx, user, "[Service.Login]")
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.SetLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}
	return session, nil
}

// AuthenticateRequest resolves an access credential to its claim. The
// denylist is consulted on every call; if it cannot answer the request is
// refused rather than let through.
func (s *Service) AuthenticateRequest(ctx context.Context, accessToken string) (claim token.Claim, err error) {
	defer s.observe(OpAuthenticate, &err)

	verified, err := s.codec.Verify(accessToken, token.KindAccess)
	if err != nil {
		return token.Claim{}, errors.Wrap(err, "[Service.AuthenticateRequest]")
	}

	denied, err := s.repos.Revocations.IsDenied(ctx, verified.ID)
	if err != nil {
		return token.Claim{}, unavailable(err, "[Service.AuthenticateRequest] checking denylist")
	}
	if denied {
		return token.Claim{}, invalidCredential("[Service.AuthenticateRequest] credential revoked")
	}

	return verified.Claim, nil
}

// Rotate exchanges a refresh credential for a new pair. The old credential
// is consumed atomically before anything is issued, so of several concurrent
// calls with the same credential exactly one succeeds. Any failure after the
// consume leaves the principal with no live session and no new credentials.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (session *Session, err error) {
	defer s.observe(OpRotate, &err)

	verified, err := s.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Rotate]")
	}
	principalID := verified.Claim.Subject

	_, err = s.repos.Sessions.Consume(ctx, token.Fingerprint(refreshToken), principalID)
	if errors.Is(err, sessions.ErrNotFound) {
		s.handleReplay(ctx, principalID, verified.ID)
		return nil, invalidCredential("[Service.Rotate] refresh credential not live")
	}
	if err != nil {
		return nil, unavailable(err, "[Service.Rotate] consuming session")
	}

	user, err := s.repos.Users.GetByID(ctx, principalID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, invalidCredential("[Service.Rotate] principal no longer exists")
	}
	if err != nil {
		return nil, unavailable(err, "[Service.Rotate] looking up user")
	}
	if user.Locked {
		return nil, errors.Wrap(autherrors.ErrAccountLocked, "[Service.Rotate]")
	}

	return s.issueSession(ctx, user, "[Service.Rotate]")
}

// Logout denies the access credential for the rest of its lifetime and drops
// the refresh session when one is supplied. Repeating it is harmless.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) (err error) {
	defer s.observe(OpLogout, &err)

	access, err := s.codec.Inspect(accessToken, token.KindAccess)
	if err != nil {
		return errors.Wrap(err, "[Service.Logout]")
	}

	if remaining := access.Remaining(s.nowTime()); remaining > 0 {
		if err := s.repos.Revocations.Deny(ctx, access.ID, remaining); err != nil {
			return unavailable(err, "[Service.Logout] denying access credential")
		}
	}

	if refreshToken == "" {
		return nil
	}
	refresh, err := s.codec.Inspect(refreshToken, token.KindRefresh)
	if err != nil || refresh.Claim.Subject != access.Claim.Subject {
		log.Debug().Str("user_id", access.Claim.Subject).Msg("ignoring refresh credential on logout")
		return nil
	}
	if err := s.repos.Sessions.Remove(ctx, token.Fingerprint(refreshToken)); err != nil {
		return unavailable(err, "[Service.Logout] removing session")
	}
	return nil
}

// Me returns the principal behind an authenticated claim.
func (s *Service) Me(ctx context.Context, claim token.Claim) (*users.User, error) {
	user, err := s.repos.Users.GetByID(ctx, claim.Subject)
	if errors.Is(err, users.ErrNotFound) {
		return nil, errors.Wrap(autherrors.ErrUserNotFound, "[Service.Me]")
	}
	if err != nil {
		return nil, unavailable(err, "[Service.Me]")
	}
	return user, nil
}

func (s *Service) issueSession(ctx context.Context, user *users.User, op string) (*Session, error) {
	claim := token.Claim{Subject: user.ID, Roles: user.RoleNames()}

	access, err := s.codec.Issue(claim, token.KindAccess)
	if err != nil {
		return nil, errors.Wrap(err, op+" issuing access credential")
	}
	refresh, err := s.codec.Issue(claim, token.KindRefresh)
	if err != nil {
		return nil, errors.Wrap(err, op+" issuing refresh credential")
	}

	record := sessions.Record{
		PrincipalID: user.ID,
		Fingerprint: token.Fingerprint(refresh.Token),
		CreatedAt:   refresh.IssuedAt,
		ExpiresAt:   refresh.ExpiresAt,
	}
	if err := s.repos.Sessions.Save(ctx, record); err != nil {
		return nil, unavailable(err, op+" saving session")
	}

	return &Session{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
		User:             user,
	}, nil
}

func (s *Service) handleReplay(ctx context.Context, principalID, credentialID string) {
	s.metrics.ObserveReplay()
	logger := log.Warn().Str("user_id", principalID).Str("jti", credentialID)
	if !s.revokeAllOnReplay {
		logger.Msg("refresh credential presented after it was consumed or replaced")
		return
	}
	if err := s.repos.Sessions.RemoveAll(ctx, principalID); err != nil {
		logger.Err(err).Msg("refresh replay detected, failed to revoke sessions")
		return
	}
	logger.Msg("refresh replay detected, revoked all sessions")
}

func (s *Service) observe(op string, err *error) {
	s.metrics.ObserveOperation(op, outcome(*err))
}
