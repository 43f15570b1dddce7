package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost fijo del hash. 10 mantiene la latencia interactiva en decenas de ms
// y acota el throughput de fuerza bruta.
const Cost = 10

// Hash devuelve el digest bcrypt del password en texto plano.
// Falla solo si la primitiva falla (p.ej. password > 72 bytes).
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

// Verify compara plain contra un digest bcrypt. Comparación en tiempo
// constante dentro de bcrypt. Un digest malformado es mismatch, nunca error.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
