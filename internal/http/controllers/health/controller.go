// Package health contiene los endpoints de liveness y readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// Pinger es la dependencia mínima para readiness (el store de Postgres).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller maneja /healthz y /readyz.
type Controller struct {
	store Pinger
}

// NewController crea el controller de health.
func NewController(store Pinger) *Controller {
	return &Controller{store: store}
}

// Register monta las rutas del controller.
func (c *Controller) Register(r chi.Router) {
	r.Get("/healthz", c.healthz)
	r.Get("/readyz", c.readyz)
}

// healthz: liveness, siempre ok mientras el proceso responda.
func (c *Controller) healthz(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz: readiness, exige Postgres accesible.
func (c *Controller) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		logger.From(r.Context()).Warn("readiness check failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("database unreachable"))
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
