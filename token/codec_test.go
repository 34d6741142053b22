package token_test

import (
	"strings"
	"testing"
	"time"

	autherrors "github.com/jrsteele09/go-social-auth/internal/errors"
	"github.com/jrsteele09/go-social-auth/token"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-0123456789abcdef"
	refreshSecret = "refresh-secret-0123456789abcdef"
	testIssuer    = "com.testissuer"
	testSubject   = "user-1"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *fakeClock) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
		Issuer:        testIssuer,
	}, token.WithNowFunc(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestNewCodecConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  token.Config
	}{
		{name: "missing access secret", cfg: token.Config{RefreshSecret: refreshSecret}},
		{name: "missing refresh secret", cfg: token.Config{AccessSecret: accessSecret}},
		{name: "shared secret", cfg: token.Config{AccessSecret: accessSecret, RefreshSecret: accessSecret}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := token.NewCodec(tt.cfg)
			require.Error(t, err)
			require.ErrorIs(t, err, autherrors.ErrConfig)
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	claim := token.Claim{Subject: testSubject, Roles: []string{"user", "admin"}}

	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			issued, err := codec.Issue(claim, kind)
			require.NoError(t, err)
			require.NotEmpty(t, issued.ID)
			require.Equal(t, issued.IssuedAt.Add(codec.TTL(kind)), issued.ExpiresAt)

			verified, err := codec.Verify(issued.Token, kind)
			require.NoError(t, err)
			require.Equal(t, claim, verified.Claim)
			require.Equal(t, issued.ID, verified.ID)
			require.Equal(t, issued.ExpiresAt.Unix(), verified.ExpiresAt.Unix())
		})
	}
}

func TestIssueGivesDistinctIDs(t *testing.T) {
	codec := newTestCodec(t, &fakeClock{now: time.Now()})
	claim := token.Claim{Subject: testSubject}

	first, err := codec.Issue(claim, token.KindRefresh)
	require.NoError(t, err)
	second, err := codec.Issue(claim, token.KindRefresh)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.NotEqual(t, first.Token, second.Token)
	require.NotEqual(t, token.Fingerprint(first.Token), token.Fingerprint(second.Token))
}

func TestVerifyRejects(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	codec := newTestCodec(t, clock)
	claim := token.Claim{Subject: testSubject, Roles: []string{"user"}}

	access, err := codec.Issue(claim, token.KindAccess)
	require.NoError(t, err)
	refresh, err := codec.Issue(claim, token.KindRefresh)
	require.NoError(t, err)

	other, err := token.NewCodec(token.Config{
		AccessSecret:  "a-completely-different-access-key",
		RefreshSecret: "a-completely-different-refresh-key",
		Issuer:        testIssuer,
	})
	require.NoError(t, err)
	forged, err := other.Issue(claim, token.KindAccess)
	require.NoError(t, err)

	t.Run("refresh token as access", func(t *testing.T) {
		_, err := codec.Verify(refresh.Token, token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})

	t.Run("access token as refresh", func(t *testing.T) {
		_, err := codec.Verify(access.Token, token.KindRefresh)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})

	t.Run("foreign signature", func(t *testing.T) {
		_, err := codec.Verify(forged.Token, token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(access.Token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		_, err := codec.Verify(tampered, token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Verify("not-a-token", token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
		_, err = codec.Verify("", token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		expiredClock := &fakeClock{now: clock.now.Add(16 * time.Minute)}
		later := newTestCodec(t, expiredClock)
		_, err := later.Verify(access.Token, token.KindAccess)
		require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
	})
}

func TestInspectIgnoresExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	codec := newTestCodec(t, clock)

	access, err := codec.Issue(token.Claim{Subject: testSubject}, token.KindAccess)
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)

	_, err = codec.Verify(access.Token, token.KindAccess)
	require.ErrorIs(t, err, autherrors.ErrInvalidCredential)

	inspected, err := codec.Inspect(access.Token, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, access.ID, inspected.ID)
	require.LessOrEqual(t, inspected.Remaining(clock.now), time.Duration(0))

	_, err = codec.Inspect(access.Token, token.KindRefresh)
	require.ErrorIs(t, err, autherrors.ErrInvalidCredential)
}

func TestFingerprint(t *testing.T) {
	fp := token.Fingerprint("some-refresh-token")
	require.Len(t, fp, 64)
	require.Equal(t, fp, token.Fingerprint("some-refresh-token"))
	require.NotEqual(t, fp, token.Fingerprint("some-other-refresh-token"))
	require.NotContains(t, fp, "some-refresh-token")
}
