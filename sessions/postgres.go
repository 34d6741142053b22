package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-social-auth/internal/db"
)

const (
	qSessionSave = `
INSERT INTO auth_sessions (principal_id, refresh_fingerprint, created_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (principal_id) DO UPDATE
SET refresh_fingerprint = EXCLUDED.refresh_fingerprint,
    created_at          = EXCLUDED.created_at,
    expires_at          = EXCLUDED.expires_at;
`
	qSessionConsume = `
DELETE FROM auth_sessions
WHERE refresh_fingerprint = $1 AND principal_id = $2 AND expires_at > now()
RETURNING principal_id, refresh_fingerprint, created_at, expires_at;
`
	qSessionRemove = `
DELETE FROM auth_sessions WHERE refresh_fingerprint = $1;
`
	qSessionRemoveAll = `
DELETE FROM auth_sessions WHERE principal_id = $1;
`
)

// PostgresRepo is the Repo backed by the auth_sessions table.
type PostgresRepo struct {
	db *db.DB
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(database *db.DB) *PostgresRepo {
	return &PostgresRepo{db: database}
}

// Save is a single upsert keyed on principal_id, so the old record is
// replaced in the same statement that writes the new one.
func (r *PostgresRepo) Save(ctx context.Context, record Record) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qSessionSave,
		record.PrincipalID, record.Fingerprint, record.CreatedAt, record.ExpiresAt); err != nil {
		return fmt.Errorf("[PostgresRepo.Save] %w", err)
	}
	return nil
}

// Consume relies on DELETE ... RETURNING: the row lock taken by the delete
// serialises concurrent callers and only the first sees a returned row.
func (r *PostgresRepo) Consume(ctx context.Context, fingerprint, principalID string) (Record, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var rec Record
	err := r.db.Pool.QueryRow(ctx, qSessionConsume, fingerprint, principalID).
		Scan(&rec.PrincipalID, &rec.Fingerprint, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("[PostgresRepo.Consume] %w", err)
	}
	return rec, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, fingerprint string) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qSessionRemove, fingerprint); err != nil {
		return fmt.Errorf("[PostgresRepo.Remove] %w", err)
	}
	return nil
}

func (r *PostgresRepo) RemoveAll(ctx context.Context, principalID string) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qSessionRemoveAll, principalID); err != nil {
		return fmt.Errorf("[PostgresRepo.RemoveAll] %w", err)
	}
	return nil
}
