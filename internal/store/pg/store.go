// Package pg implementa los repositorios del dominio sobre PostgreSQL.
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
)

// Config del pool de conexiones.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Store agrupa los repositorios sobre un único pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect abre el pool y verifica la conexión.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Ping verifica la salud de la conexión (para /readyz).
func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool.
func (s *Store) Close() { s.pool.Close() }

// Pool expone el pool subyacente (métricas).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// ─── Repositorios ───

func (s *Store) Users() repository.UserRepository         { return &userRepo{pool: s.pool} }
func (s *Store) Admins() repository.AdminRepository       { return &adminRepo{pool: s.pool} }
func (s *Store) Questions() repository.QuestionRepository { return &questionRepo{pool: s.pool} }
func (s *Store) Attempts() repository.AttemptRepository   { return &attemptRepo{pool: s.pool} }

// isUniqueViolation detecta el código 23505 de Postgres. Es la señal
// autoritativa de email duplicado: no hay check-then-insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
