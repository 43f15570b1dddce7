package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/secaware/internal/jwt"
	"github.com/dropDatabas3/secaware/internal/rate"
)

type stubLimiter struct {
	res     rate.Result
	err     error
	lastKey string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (rate.Result, error) {
	l.lastKey = key
	return l.res, l.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithRateLimit_Allowed(t *testing.T) {
	t.Parallel()
	lim := &stubLimiter{res: rate.Result{Allowed: true, Remaining: 7}}
	h := WithRateLimit(lim, IPRateKey)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:4567"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get("X-RateLimit-Remaining"))
	// la clave separa por path: los límites de login y 2fa no se mezclan
	assert.Equal(t, "/api/auth/login|10.0.0.1", lim.lastKey)
}

func TestWithRateLimit_Blocked(t *testing.T) {
	t.Parallel()
	lim := &stubLimiter{res: rate.Result{Allowed: false, RetryAfter: 42 * time.Second}}
	h := WithRateLimit(lim, IPRateKey)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestWithRateLimit_FailOpen(t *testing.T) {
	t.Parallel()
	lim := &stubLimiter{err: errors.New("redis: connection refused")}
	h := WithRateLimit(lim, IPRateKey)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubjectRateKey(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify", nil)
	req.RemoteAddr = "10.0.0.9:1111"
	assert.Equal(t, "10.0.0.9", SubjectRateKey(req))

	claims := &jwt.SessionClaims{}
	claims.Subject = "user-42"
	req = req.WithContext(WithSession(req.Context(), claims))
	assert.Equal(t, "user-42", SubjectRateKey(req))
}

func TestWithRateLimit_NilLimiterPassthrough(t *testing.T) {
	t.Parallel()
	h := WithRateLimit(nil, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
