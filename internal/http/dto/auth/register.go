// Package auth contiene DTOs para endpoints de autenticación.
package auth

import "github.com/dropDatabas3/secaware/internal/domain/types"

// RegisterRequest representa la solicitud de registro.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse representa la respuesta exitosa de registro (201).
type RegisterResponse struct {
	Message   string           `json:"message"`
	User      types.PublicUser `json:"user"`
	Token     string           `json:"token"`
	Role      string           `json:"role"`
	EmailSent bool             `json:"email_sent"`
}
