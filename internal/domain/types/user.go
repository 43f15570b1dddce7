// Package types define las entidades del dominio.
package types

import "time"

// Role es el rol del principal dentro de la plataforma.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SubjectKind discrimina la clase de principal de un session token.
// Set cerrado: nada se infiere por presencia de campos en las claims.
type SubjectKind string

const (
	SubjectUser  SubjectKind = "user"
	SubjectAdmin SubjectKind = "admin"
)

// User es un principal registrado por el flujo público.
// Invariantes:
//   - Verified es monotónico: pasa a true una sola vez y nunca revierte.
//   - VerificationToken existe sólo mientras Verified == false.
//   - TOTPSecret puede existir con TOTPEnabled == false (enrolamiento
//     provisional hasta la primera verificación de código).
type User struct {
	ID                string
	Email             string // normalizado a minúsculas
	DisplayName       string
	PasswordHash      string
	Verified          bool
	VerificationToken *string
	TOTPSecret        *string
	TOTPEnabled       bool
	Role              Role
	LastLoginAt       *time.Time
	CreatedAt         time.Time
}

// PublicUser es la proyección pública del usuario (sin credenciales).
type PublicUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Public retorna la proyección pública.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email, Role: u.Role}
}
