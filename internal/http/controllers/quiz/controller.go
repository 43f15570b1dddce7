// Package quiz contiene el controller HTTP del juego.
package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/secaware/internal/http/dto/quiz"
	httperrors "github.com/dropDatabas3/secaware/internal/http/errors"
	"github.com/dropDatabas3/secaware/internal/http/metrics"
	"github.com/dropDatabas3/secaware/internal/http/middlewares"
	svc "github.com/dropDatabas3/secaware/internal/http/services/quiz"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

const maxSubmitBody = 256 << 10 // los intentos largos traen muchas respuestas

// Controller maneja los endpoints /api/quiz/*.
type Controller struct {
	service svc.Service
	session middlewares.Middleware
}

// NewController crea el controller del quiz.
func NewController(s svc.Service, session middlewares.Middleware) *Controller {
	return &Controller{service: s, session: session}
}

// Register monta las rutas del controller.
func (c *Controller) Register(r chi.Router) {
	r.Get("/questions", c.questions)
	r.Get("/categories", c.categories)
	r.Get("/leaderboard", c.leaderboard)

	r.Group(func(r chi.Router) {
		r.Use(c.session)
		r.Post("/submit", c.submit)
		r.Get("/attempts", c.attempts)
		r.Get("/stats", c.stats)
	})
}

// questions maneja GET /api/quiz/questions?category=&limit=
func (c *Controller) questions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := c.service.Questions(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// categories maneja GET /api/quiz/categories
func (c *Controller) categories(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Categories(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// leaderboard maneja GET /api/quiz/leaderboard?limit=
func (c *Controller) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := c.service.Leaderboard(r.Context(), limit)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// submit maneja POST /api/quiz/submit
func (c *Controller) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middlewares.SubjectID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	var req dto.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	resp, err := c.service.Submit(ctx, userID, req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	metrics.CountQuizSubmit()
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// attempts maneja GET /api/quiz/attempts
func (c *Controller) attempts(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.SubjectID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.service.Attempts(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

// stats maneja GET /api/quiz/stats
func (c *Controller) stats(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.SubjectID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	resp, err := c.service.Stats(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	httperrors.WriteJSON(w, http.StatusOK, resp)
}

func (c *Controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrSubmitNoAnswers):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("answers must be a non-empty array"))
	default:
		logger.From(r.Context()).Error("quiz service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
