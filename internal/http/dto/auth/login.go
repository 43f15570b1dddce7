package auth

import "github.com/dropDatabas3/secaware/internal/domain/types"

// LoginRequest representa la solicitud de login por password.
// TwoFACode es opcional: vacío dispara el step-up 206 cuando la cuenta
// tiene 2FA activado.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	TwoFACode string `json:"twofa_code"`
}

// LoginResponse representa la respuesta exitosa de login (200).
type LoginResponse struct {
	Message string           `json:"message"`
	User    types.PublicUser `json:"user"`
	Token   string           `json:"token"`
	Role    string           `json:"role"`
}

// TwoFARequiredResponse representa el step-up: la password fue correcta
// pero falta el segundo factor. Nunca incluye session token.
type TwoFARequiredResponse struct {
	Error         string `json:"error"`
	TwoFARequired bool   `json:"twofa_required"`
}

// LoginResult es el resultado interno del service (sesión o step-up).
type LoginResult struct {
	// Si Success=true, Token/User están disponibles
	Success bool
	Token   string
	User    types.PublicUser
	Role    string

	// Si TwoFARequired=true, hay un challenge pendiente
	TwoFARequired bool
}
