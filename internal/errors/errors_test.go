package errors_test

import (
	"fmt"
	"testing"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestInvalidRequestCarriesReason(t *testing.T) {
	chains := map[string]error{
		"bare":        autherrors.InvalidRequest("username is too short"),
		"pkg wrap":    errors.Wrap(autherrors.InvalidRequest("username is too short"), "[Service.Register]"),
		"fmt wrap":    fmt.Errorf("registering: %w", autherrors.InvalidRequest("username is too short")),
		"double wrap": errors.Wrap(autherrors.Wrapf(autherrors.InvalidRequest("username is too short"), "validating %s", "jane"), "[Service.Register]"),
	}

	for name, err := range chains {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, err, autherrors.ErrInvalidRequest)
			require.NotErrorIs(t, err, autherrors.ErrInvalidCredentials)

			var problem *autherrors.ValidationError
			require.True(t, autherrors.As(err, &problem))
			require.Equal(t, "username is too short", problem.Reason)
		})
	}
}

func TestPlainInvalidRequestHasNoReason(t *testing.T) {
	err := errors.Wrap(autherrors.ErrInvalidRequest, "[Service.Register]")

	var problem *autherrors.ValidationError
	require.False(t, autherrors.As(err, &problem))
}
