// Package router arma el árbol de rutas de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/dropDatabas3/secaware/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/secaware/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/secaware/internal/http/controllers/health"
	quizctrl "github.com/dropDatabas3/secaware/internal/http/controllers/quiz"
	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/http/metrics"
	mw "github.com/dropDatabas3/secaware/internal/http/middlewares"
)

// Deps contiene todo lo que el router necesita montar.
type Deps struct {
	Auth   *authctrl.Controller
	Quiz   *quizctrl.Controller
	Admin  *adminctrl.Controller
	Health *healthctrl.Controller

	// MetricsHandler sirve /metrics. nil = no se expone.
	MetricsHandler http.Handler

	CORSAllowedOrigins []string
}

// New construye el router con la cadena de middlewares global.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSAllowedOrigins),
		metrics.WithMetrics,
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Health != nil {
		d.Health.Register(r)
	}
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) { d.Auth.Register(r) })
	r.Route("/api/quiz", func(r chi.Router) { d.Quiz.Register(r) })
	r.Route("/api/admin", func(r chi.Router) { d.Admin.Register(r) })

	return r
}
