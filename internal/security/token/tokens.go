// Package tokens genera los tokens opacos de verificación de email.
package tokens

import (
	"crypto/rand"
	"encoding/hex"
)

// VerificationTokenBytes son los bytes de entropía del token (256 bits).
const VerificationTokenBytes = 32

// NewVerificationToken genera un token opaco hex de 64 chars.
// No se persiste acá: el caller lo guarda en el registro del usuario.
func NewVerificationToken() (string, error) {
	b := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
