package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
)

type userRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, email, display_name, password_hash, verified,
	verification_token, totp_secret, totp_enabled, role, last_login_at, created_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Verified,
		&u.VerificationToken, &u.TOTPSecret, &u.TOTPEnabled, &u.Role,
		&u.LastLoginAt, &u.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*types.User, error) {
	id := uuid.NewString()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	const query = `
		INSERT INTO users (id, email, display_name, password_hash, verified, verification_token, role)
		VALUES ($1, $2, $3, $4, FALSE, $5, 'user')
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, email, in.DisplayName, in.PasswordHash, in.VerificationToken))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("pg: create user: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get user by id: %w", err)
	}
	return u, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1)`
	u, err := scanUser(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get user by email: %w", err)
	}
	return u, err
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, token))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get user by verification token: %w", err)
	}
	return u, err
}

func (r *userRepo) ListAll(ctx context.Context) ([]types.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}
	defer rows.Close()

	var out []types.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// MarkVerified: un único UPDATE setea el flag y limpia el token.
// Sin WHERE verified=false: repetirlo sobre un verificado es no-op exitoso.
func (r *userRepo) MarkVerified(ctx context.Context, id string) error {
	const query = `UPDATE users SET verified = TRUE, verification_token = NULL WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pg: mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetTOTPSecret(ctx context.Context, id, secretB32 string) error {
	const query = `UPDATE users SET totp_secret = $2, totp_enabled = FALSE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, secretB32)
	if err != nil {
		return fmt.Errorf("pg: set totp secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) EnableTOTP(ctx context.Context, id string) error {
	const query = `UPDATE users SET totp_enabled = TRUE WHERE id = $1 AND totp_secret IS NOT NULL`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pg: enable totp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE users SET last_login_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("pg: update last login: %w", err)
	}
	return nil
}
