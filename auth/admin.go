package auth

import (
	"context"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/jrsteele09/go-social-auth/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxListLimit = 100

// LockAccount refuses future logins and rotations for the principal and
// drops its live refresh session. Access credentials already issued stay
// valid until they expire.
func (s *Service) LockAccount(ctx context.Context, userID string) error {
	if err := s.setLocked(ctx, userID, true); err != nil {
		return err
	}
	if err := s.repos.Sessions.RemoveAll(ctx, userID); err != nil {
		return unavailable(err, "[Service.LockAccount] removing sessions")
	}
	log.Info().Str("user_id", userID).Msg("account locked")
	return nil
}

func (s *Service) UnlockAccount(ctx context.Context, userID string) error {
	if err := s.setLocked(ctx, userID, false); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Msg("account unlocked")
	return nil
}

// ListUsers pages through principals, clamping limit to 1..100.
func (s *Service) ListUsers(ctx context.Context, offset, limit int) (users.UsersListResponse, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	resp, err := s.repos.Users.List(ctx, offset, limit)
	if err != nil {
		return users.UsersListResponse{}, unavailable(err, "[Service.ListUsers]")
	}
	return resp, nil
}

func (s *Service) setLocked(ctx context.Context, userID string, locked bool) error {
	err := s.repos.Users.SetLocked(ctx, userID, locked)
	if errors.Is(err, users.ErrNotFound) {
		return errors.Wrap(autherrors.ErrUserNotFound, "[Service.setLocked]")
	}
	if err != nil {
		return unavailable(err, "[Service.setLocked]")
	}
	return nil
}
