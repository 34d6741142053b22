package auth

import (
	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/jrsteele09/go-social-auth/internal/metrics"
	"github.com/pkg/errors"
)

// unavailable tags a store fault so handlers answer 503 while the log keeps
// the cause.
func unavailable(err error, op string) error {
	return errors.Wrap(autherrors.Join(autherrors.ErrAuthServiceUnavailable, err), op)
}

func invalidCredential(op string) error {
	return errors.Wrap(autherrors.ErrInvalidCredential, op)
}

func invalidRequest(err error, op string) error {
	return errors.Wrap(autherrors.InvalidRequest(err.Error()), op)
}

// outcome classifies err for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case autherrors.Is(err, autherrors.ErrAuthServiceUnavailable):
		return metrics.OutcomeUnavailable
	case autherrors.Is(err, autherrors.ErrAccountLocked):
		return metrics.OutcomeLocked
	case autherrors.Is(err, autherrors.ErrInvalidCredential),
		autherrors.Is(err, autherrors.ErrInvalidCredentials),
		autherrors.Is(err, autherrors.ErrInvalidRequest),
		autherrors.Is(err, autherrors.ErrEmailExists),
		autherrors.Is(err, autherrors.ErrUsernameExists):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
