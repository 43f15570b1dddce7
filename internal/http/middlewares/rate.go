package middlewares

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
	"github.com/dropDatabas3/secaware/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPRateKey genera una clave basada solo en la IP del cliente.
// Para login no leemos el body: la IP alcanza y evita tocar credenciales.
func IPRateKey(r *http.Request) string {
	return ClientIP(r)
}

// SubjectRateKey limita por principal autenticado; sin sesión cae a la IP.
// Corre después de RequireSession en las rutas 2FA.
func SubjectRateKey(r *http.Request) string {
	if id := SubjectID(r.Context()); id != "" {
		return id
	}
	return ClientIP(r)
}

// WithRateLimit limita los requests según el limiter dado.
// Si el limiter falla (ej. Redis caído) el request se permite: la
// disponibilidad del login pesa más que la ventana exacta.
func WithRateLimit(limiter rate.Limiter, keyFn RateKeyFunc) Middleware {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = IPRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Path + "|" + keyFn(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}
