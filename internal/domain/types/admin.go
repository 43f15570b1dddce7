package types

import "time"

// Admin es el principal administrativo. Tabla paralela a users por diseño
// legado; comparte shape de credenciales pero no los campos de
// verificación/2FA.
type Admin struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role // siempre admin hoy; columna para futuros sub-roles
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// Public retorna la proyección pública del admin.
func (a *Admin) Public() PublicUser {
	return PublicUser{ID: a.ID, DisplayName: a.DisplayName, Email: a.Email, Role: a.Role}
}
