// Package jwt emite y valida los session tokens stateless de la plataforma.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/secaware/internal/domain/types"
)

// SessionTTL es la expiración absoluta de todo session token.
const SessionTTL = 24 * time.Hour

// ErrInvalidToken cubre firma inválida, estructura malformada y expiración.
// Siempre se mapea a 401, nunca a un error de servidor.
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims son las claims del session token. El discriminante Kind es
// explícito (user|admin): nada se infiere por presencia de campos.
type SessionClaims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwtv5.RegisteredClaims
}

// SubjectID retorna el id del sujeto (claim sub).
func (c *SessionClaims) SubjectID() string { return c.Subject }

// SubjectKind retorna el kind tipado, o error si no pertenece al set cerrado.
func (c *SessionClaims) SubjectKind() (types.SubjectKind, error) {
	switch types.SubjectKind(c.Kind) {
	case types.SubjectUser:
		return types.SubjectUser, nil
	case types.SubjectAdmin:
		return types.SubjectAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown subject kind %q", ErrInvalidToken, c.Kind)
}

// Issuer firma session tokens con un secreto simétrico del proceso (HS256).
type Issuer struct {
	Iss    string
	secret []byte
	ttl    time.Duration
	now    func() time.Time // inyectable en tests
}

// NewIssuer crea un Issuer. El secreto llega de entorno/config, nunca del código.
func NewIssuer(iss string, secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt: empty signing secret")
	}
	return &Issuer{Iss: iss, secret: secret, ttl: SessionTTL, now: time.Now}, nil
}

// WithClock reemplaza el reloj. Solo tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue firma un token de sesión para el sujeto dado. Expira en 24h.
func (i *Issuer) Issue(subjectID string, role types.Role, kind types.SubjectKind) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := SessionClaims{
		Role: string(role),
		Kind: string(kind),
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   subjectID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

// Verify valida firma, estructura y expiración. Cualquier fallo retorna
// ErrInvalidToken; el detalle queda envuelto para logs.
func (i *Issuer) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tk, err := jwtv5.ParseWithClaims(raw, claims,
		func(t *jwtv5.Token) (any, error) {
			if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil || !tk.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := claims.SubjectKind(); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return claims, nil
}
