// Package admin contiene el controller HTTP del panel de administración.
// Todas las rutas exigen sesión con kind=admin.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/secaware/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/http/middlewares"
	svc "github.com/dropDatabas3/secaware/internal/http/services/admin"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

const maxAdminBody = 64 << 10

// Controller maneja los endpoints /api/admin/*.
type Controller struct {
	service svc.Service
	session middlewares.Middleware
}

// NewController crea el controller admin.
func NewController(s svc.Service, session middlewares.Middleware) *Controller {
	return &Controller{service: s, session: session}
}

// Register monta las rutas del controller.
func (c *Controller) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(c.session, middlewares.RequireAdmin())

		r.Get("/users", c.users)
		r.Get("/questions", c.questions)
		r.Post("/questions", c.createQuestion)
		r.Put("/questions/{id}", c.updateQuestion)
		r.Delete("/questions/{id}", c.deleteQuestion)
		r.Get("/stats", c.stats)
		r.Get("/results", c.results)
	})
}

// users maneja GET /api/admin/users
func (c *Controller) users(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Users(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// questions maneja GET /api/admin/questions
func (c *Controller) questions(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Questions(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// createQuestion maneja POST /api/admin/questions
func (c *Controller) createQuestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminBody)

	var req dto.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	resp, err := c.service.CreateQuestion(r.Context(), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusCreated, resp)
}

// updateQuestion maneja PUT /api/admin/questions/{id}
func (c *Controller) updateQuestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminBody)

	var req dto.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	resp, err := c.service.UpdateQuestion(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// deleteQuestion maneja DELETE /api/admin/questions/{id}
func (c *Controller) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.DeleteQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// stats maneja GET /api/admin/stats
func (c *Controller) stats(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Stats(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// results maneja GET /api/admin/results
func (c *Controller) results(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Results(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

func (c *Controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrQuestionMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrQuestionNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("question not found"))
	default:
		logger.From(r.Context()).Error("admin service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
