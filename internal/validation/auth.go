package validation

import (
	"regexp"
	"strings"
)

// Email rules (pragmáticas, no RFC 5322 completo):
// - local@domain con al menos un punto en el domain.
// - Sin espacios; longitud total 3..254.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MinPasswordLength es el mínimo aceptado en el registro.
const MinPasswordLength = 6

// ValidEmail retorna true si el email tiene forma razonable.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return emailRe.MatchString(email)
}

// ValidPassword retorna true si el password cumple el largo mínimo.
func ValidPassword(pwd string) bool {
	return len(pwd) >= MinPasswordLength
}

// NormalizeEmail aplica la política de case: emails únicos en minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
