package auth

import "github.com/dropDatabas3/secaware/internal/domain/types"

// ProfileResponse representa el perfil del principal autenticado.
type ProfileResponse struct {
	User types.PublicUser `json:"user"`
}
