// Package repository define los contratos de persistencia del dominio.
package repository

import (
	"context"

	"github.com/dropDatabas3/secaware/internal/domain/types"
)

// CreateUserInput son los datos para crear un usuario nuevo (verified=false).
type CreateUserInput struct {
	Email             string
	DisplayName       string
	PasswordHash      string
	VerificationToken string
}

// UserRepository persiste los principals tipo user.
//
// Todas las mutaciones son updates de una sola fila, atómicos en el storage.
type UserRepository interface {
	// Create inserta el usuario y retorna la entidad con ID asignado.
	// Email duplicado (case-insensitive) retorna ErrDuplicateEmail.
	Create(ctx context.Context, in CreateUserInput) (*types.User, error)

	GetByID(ctx context.Context, id string) (*types.User, error)
	// GetByEmail busca por email normalizado a minúsculas.
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	// GetByVerificationToken busca al único usuario con ese token pendiente.
	GetByVerificationToken(ctx context.Context, token string) (*types.User, error)
	// ListAll retorna todos los usuarios ordenados por fecha de alta.
	ListAll(ctx context.Context) ([]types.User, error)

	// MarkVerified setea verified=true y limpia verification_token en un
	// único UPDATE. Idempotente: sobre un usuario ya verificado es no-op exitoso.
	MarkVerified(ctx context.Context, id string) error

	// SetTOTPSecret guarda el secret provisional dejando totp_enabled=false.
	SetTOTPSecret(ctx context.Context, id, secretB32 string) error
	// EnableTOTP activa el segundo factor tras la primera verificación exitosa.
	EnableTOTP(ctx context.Context, id string) error

	// UpdateLastLogin registra el timestamp del último login.
	UpdateLastLogin(ctx context.Context, id string) error
}

// CreateAdminInput son los datos para crear un admin.
type CreateAdminInput struct {
	Email        string
	DisplayName  string
	PasswordHash string
}

// AdminRepository persiste los principals administrativos (tabla paralela).
type AdminRepository interface {
	Create(ctx context.Context, in CreateAdminInput) (*types.Admin, error)
	GetByID(ctx context.Context, id string) (*types.Admin, error)
	GetByEmail(ctx context.Context, email string) (*types.Admin, error)
	UpdateLastLogin(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
