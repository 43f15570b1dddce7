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

type adminRepo struct{ pool *pgxpool.Pool }

const adminColumns = `id, email, display_name, password_hash, role, last_login_at, created_at`

func scanAdmin(row pgx.Row) (*types.Admin, error) {
	var a types.Admin
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.Role, &a.LastLoginAt, &a.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) Create(ctx context.Context, in repository.CreateAdminInput) (*types.Admin, error) {
	id := uuid.NewString()
	email := strings.ToLower(strings.TrimSpace(in.Email))

	const query = `
		INSERT INTO admins (id, email, display_name, password_hash, role)
		VALUES ($1, $2, $3, $4, 'admin')
		RETURNING ` + adminColumns

	a, err := scanAdmin(r.pool.QueryRow(ctx, query, id, email, in.DisplayName, in.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("pg: create admin: %w", err)
	}
	return a, nil
}

func (r *adminRepo) GetByID(ctx context.Context, id string) (*types.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	a, err := scanAdmin(r.pool.QueryRow(ctx, query, id))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get admin by id: %w", err)
	}
	return a, err
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*types.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admins WHERE email = LOWER($1)`
	a, err := scanAdmin(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get admin by email: %w", err)
	}
	return a, err
}

func (r *adminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE admins SET last_login_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("pg: update admin last login: %w", err)
	}
	return nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("pg: count admins: %w", err)
	}
	return n, nil
}
