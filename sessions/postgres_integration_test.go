package sessions_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-social-auth/internal/db"
	"github.com/jrsteele09/go-social-auth/internal/db/migrate"
	"github.com/jrsteele09/go-social-auth/sessions"
	"github.com/stretchr/testify/require"
)

// Integration tests run only when TEST_DATABASE_URL points at a disposable Postgres.

func setupPostgres(t *testing.T) (*db.DB, *sessions.PostgresRepo) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set; skipping Postgres integration test")
	}

	require.NoError(t, migrate.Run(dsn, migrate.DirectionUp))

	database, err := db.New(context.Background(), db.Config{URL: dsn, QueryTimeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(database.Close)

	return database, sessions.NewPostgresRepo(database)
}

func createPrincipal(t *testing.T, database *db.DB) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := database.Pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash) VALUES ($1, $2, $3, 'x')`,
		id, id+"@example.com", id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = database.Pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func newRecord(principalID, fingerprint string) sessions.Record {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return sessions.Record{
		PrincipalID: principalID,
		Fingerprint: fingerprint,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
}

func TestPostgresRepoSaveReplacesAndConsumeOnce(t *testing.T) {
	ctx := context.Background()
	database, repo := setupPostgres(t)
	principalID := createPrincipal(t, database)

	first := newRecord(principalID, uuid.New().String())
	second := newRecord(principalID, uuid.New().String())

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	_, err := repo.Consume(ctx, first.Fingerprint, principalID)
	require.ErrorIs(t, err, sessions.ErrNotFound)

	got, err := repo.Consume(ctx, second.Fingerprint, principalID)
	require.NoError(t, err)
	require.Equal(t, principalID, got.PrincipalID)
	require.Equal(t, second.Fingerprint, got.Fingerprint)

	_, err = repo.Consume(ctx, second.Fingerprint, principalID)
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestPostgresRepoConsumeRequiresMatchingPrincipal(t *testing.T) {
	ctx := context.Background()
	database, repo := setupPostgres(t)
	owner := createPrincipal(t, database)
	other := createPrincipal(t, database)

	rec := newRecord(owner, uuid.New().String())
	require.NoError(t, repo.Save(ctx, rec))

	_, err := repo.Consume(ctx, rec.Fingerprint, other)
	require.ErrorIs(t, err, sessions.ErrNotFound)

	_, err = repo.Consume(ctx, rec.Fingerprint, owner)
	require.NoError(t, err)
}

func TestPostgresRepoConsumeIgnoresExpired(t *testing.T) {
	ctx := context.Background()
	database, repo := setupPostgres(t)
	principalID := createPrincipal(t, database)

	rec := newRecord(principalID, uuid.New().String())
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Save(ctx, rec))

	_, err := repo.Consume(ctx, rec.Fingerprint, principalID)
	require.ErrorIs(t, err, sessions.ErrNotFound)
}

func TestPostgresRepoConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	database, repo := setupPostgres(t)
	principalID := createPrincipal(t, database)

	rec := newRecord(principalID, uuid.New().String())
	require.NoError(t, repo.Save(ctx, rec))

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		losses  int
		unknown []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Consume(ctx, rec.Fingerprint, principalID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case err == sessions.ErrNotFound:
				losses++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, unknown)
	require.Equal(t, 1, wins)
	require.Equal(t, callers-1, losses)
}

func TestPostgresRepoRemove(t *testing.T) {
	ctx := context.Background()
	database, repo := setupPostgres(t)
	principalID := createPrincipal(t, database)

	rec := newRecord(principalID, uuid.New().String())
	require.NoError(t, repo.Save(ctx, rec))

	require.NoError(t, repo.Remove(ctx, rec.Fingerprint))
	require.NoError(t, repo.Remove(ctx, rec.Fingerprint))

	_, err := repo.Consume(ctx, rec.Fingerprint, principalID)
	require.ErrorIs(t, err, sessions.ErrNotFound)

	rec = newRecord(principalID, uuid.New().String())
	require.NoError(t, repo.Save(ctx, rec))
	require.NoError(t, repo.RemoveAll(ctx, principalID))
	_, err = repo.Consume(ctx, rec.Fingerprint, principalID)
	require.ErrorIs(t, err, sessions.ErrNotFound)
}
