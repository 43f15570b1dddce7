package middlewares

import (
	"context"

	"github.com/dropDatabas3/secaware/internal/jwt"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxSessionKey guarda las claims de sesión parseadas
	ctxSessionKey ctxKey = "session"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (internos, usados por middlewares)
// =================================================================================

// WithSession inyecta las claims de sesión en el contexto
func WithSession(ctx context.Context, claims *jwt.SessionClaims) context.Context {
	return context.WithValue(ctx, ctxSessionKey, claims)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (públicos, usados por handlers/services)
// =================================================================================

// Session obtiene las claims de sesión del contexto.
// Retorna nil si no hay sesión (token no validado o middleware no aplicado).
func Session(ctx context.Context) *jwt.SessionClaims {
	if v := ctx.Value(ctxSessionKey); v != nil {
		if c, ok := v.(*jwt.SessionClaims); ok {
			return c
		}
	}
	return nil
}

// SubjectID obtiene el ID del sujeto autenticado del contexto.
// Retorna cadena vacía si no hay sesión.
func SubjectID(ctx context.Context) string {
	if c := Session(ctx); c != nil {
		return c.Subject
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
