package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/secaware/internal/domain/types"
	"github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/jwt"
)

// bearerToken extrae el token de la cabecera Authorization.
// Retorna cadena vacía si la cabecera falta o no es Bearer.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSession valida el token Bearer de la sesión e inyecta las claims
// en el contexto. Sin token o con token inválido responde 401.
func RequireSession(issuer *jwt.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
		})
	}
}

// RequireKind exige que la sesión pertenezca al tipo de sujeto indicado.
// Un token de usuario nunca abre rutas de admin y viceversa.
func RequireKind(kind types.SubjectKind) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Session(r.Context())
			if claims == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			got, err := claims.SubjectKind()
			if err != nil || got != kind {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin es un alias de RequireKind(types.SubjectAdmin).
func RequireAdmin() Middleware {
	return RequireKind(types.SubjectAdmin)
}
