package fakesessionrepo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-auth/sessions"
	fakesessionrepo "github.com/jrsteele09/go-social-auth/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

func TestFakeSessionRepoConsumeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	repo := fakesessionrepo.NewFakeSessionRepo()
	rec := sessions.Record{PrincipalID: "user-1", Fingerprint: "fp-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Save(ctx, rec))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Consume(ctx, "fp-1", "user-1"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	require.Equal(t, 0, repo.Len())
}

func TestFakeSessionRepoSaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := fakesessionrepo.NewFakeSessionRepo()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Save(ctx, sessions.Record{PrincipalID: "user-1", Fingerprint: "fp-1", ExpiresAt: exp}))
	require.NoError(t, repo.Save(ctx, sessions.Record{PrincipalID: "user-1", Fingerprint: "fp-2", ExpiresAt: exp}))
	require.Equal(t, 1, repo.Len())

	_, err := repo.Consume(ctx, "fp-1", "user-1")
	require.ErrorIs(t, err, sessions.ErrNotFound)

	rec, err := repo.Consume(ctx, "fp-2", "user-1")
	require.NoError(t, err)
	require.Equal(t, "fp-2", rec.Fingerprint)
}
