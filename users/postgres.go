package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/go-social-auth/internal/db"
)

const (
	userColumns = `id, email, username, password_hash, profile_picture, roles, locked, created_at, last_login`

	qUserCreate = `
INSERT INTO users (id, email, username, password_hash, profile_picture, roles, locked, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	qUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	qUserByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	qUserList    = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id OFFSET $1 LIMIT $2;`
	qUserCount   = `SELECT count(*) FROM users;`
	qUserLock    = `UPDATE users SET locked = $2 WHERE id = $1;`
	qUserLogin   = `UPDATE users SET last_login = now() WHERE id = $1;`
)

// PostgresRepo is the UserRepo backed by the users table.
type PostgresRepo struct {
	db *db.DB
}

var _ UserRepo = (*PostgresRepo)(nil)

func NewPostgresRepo(database *db.DB) *PostgresRepo {
	return &PostgresRepo{db: database}
}

func (r *PostgresRepo) Create(ctx context.Context, user *User) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	_, err := r.db.Pool.Exec(ctx, qUserCreate,
		user.ID, user.Email, user.Username, user.PasswordHash, user.ProfilePicture,
		user.RoleNames(), user.Locked, user.DateJoined)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return fmt.Errorf("[PostgresRepo.Create] %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	return scanUser(r.db.Pool.QueryRow(ctx, qUserByEmail, email))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	return scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id))
}

func (r *PostgresRepo) List(ctx context.Context, offset, limit int) (UsersListResponse, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.Pool.QueryRow(ctx, qUserCount).Scan(&total); err != nil {
		return UsersListResponse{}, fmt.Errorf("[PostgresRepo.List] count: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, qUserList, offset, limit)
	if err != nil {
		return UsersListResponse{}, fmt.Errorf("[PostgresRepo.List] %w", err)
	}
	defer rows.Close()

	list := make([]*User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return UsersListResponse{}, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return UsersListResponse{}, fmt.Errorf("[PostgresRepo.List] rows: %w", err)
	}

	return UsersListResponse{Users: list, Total: total, Offset: offset, Limit: limit}, nil
}

func (r *PostgresRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qUserLock, id, locked)
	if err != nil {
		return fmt.Errorf("[PostgresRepo.SetLocked] %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) SetLastLogin(ctx context.Context, id string) error {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qUserLogin, id); err != nil {
		return fmt.Errorf("[PostgresRepo.SetLastLogin] %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u     User
		roles []string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.ProfilePicture,
		&roles, &u.Locked, &u.DateJoined, &u.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[users.scanUser] %w", err)
	}
	u.Roles = make([]RoleType, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, RoleType(role))
	}
	return &u, nil
}
