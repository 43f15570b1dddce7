// Package admin contiene el service del panel de administración: gestión
// del banco de preguntas, listado de usuarios y agregados del sistema.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/secaware/internal/cache"
	"github.com/dropDatabas3/secaware/internal/domain/repository"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/admin"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// Errores del panel admin (sentinel)
var (
	ErrQuestionMissingFields = errors.New("question, options and correct answer are required")
	ErrQuestionNotFound      = errors.New("question not found")
)

// Service define las operaciones del panel admin.
type Service interface {
	Users(ctx context.Context) (*dto.UsersResponse, error)
	Questions(ctx context.Context) (*dto.QuestionsResponse, error)
	CreateQuestion(ctx context.Context, in dto.QuestionRequest) (*dto.MessageResponse, error)
	UpdateQuestion(ctx context.Context, id string, in dto.QuestionRequest) (*dto.MessageResponse, error)
	DeleteQuestion(ctx context.Context, id string) (*dto.MessageResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Results(ctx context.Context) (*dto.ResultsResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Users     repository.UserRepository
	Questions repository.QuestionRepository
	Attempts  repository.AttemptRepository
	// Cache del módulo quiz: las mutaciones de preguntas lo invalidan.
	QuizCache cache.Cache
}

type service struct {
	deps Deps
}

// New crea el service admin.
func New(d Deps) Service {
	return &service{deps: d}
}

// Users lista todos los usuarios registrados.
func (s *service) Users(ctx context.Context) (*dto.UsersResponse, error) {
	users, err := s.deps.Users.ListAll(ctx)
	if err != nil {
		logger.From(ctx).Error("user listing failed", logger.Err(err))
		return nil, err
	}

	rows := make([]dto.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, dto.UserRow{
			ID:        u.ID,
			Username:  u.DisplayName,
			Email:     u.Email,
			Role:      string(u.Role),
			Verified:  u.Verified,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.UsersResponse{Users: rows}, nil
}

// Questions lista el banco completo, respuesta correcta incluida.
func (s *service) Questions(ctx context.Context) (*dto.QuestionsResponse, error) {
	qs, err := s.deps.Questions.List(ctx, repository.QuestionFilter{})
	if err != nil {
		return nil, err
	}

	out := make([]dto.QuestionRow, 0, len(qs))
	for _, q := range qs {
		out = append(out, dto.QuestionRow{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			Difficulty:    q.Difficulty,
			CreatedAt:     q.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.QuestionsResponse{Questions: out}, nil
}

// CreateQuestion da de alta una pregunta e invalida el cache del quiz.
func (s *service) CreateQuestion(ctx context.Context, in dto.QuestionRequest) (*dto.MessageResponse, error) {
	if in.Question == "" || len(in.Options) == 0 || in.CorrectAnswer == "" {
		return nil, ErrQuestionMissingFields
	}

	_, err := s.deps.Questions.Create(ctx, repository.CreateQuestionInput{
		Question:      in.Question,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Category:      in.Category,
		Difficulty:    in.Difficulty,
	})
	if err != nil {
		logger.From(ctx).Error("question create failed", logger.Err(err))
		return nil, err
	}

	s.invalidateQuizCache(in.Category)
	return &dto.MessageResponse{Message: "Question created successfully"}, nil
}

// UpdateQuestion edita una pregunta existente.
func (s *service) UpdateQuestion(ctx context.Context, id string, in dto.QuestionRequest) (*dto.MessageResponse, error) {
	if in.Question == "" || len(in.Options) == 0 || in.CorrectAnswer == "" {
		return nil, ErrQuestionMissingFields
	}

	err := s.deps.Questions.Update(ctx, id, repository.CreateQuestionInput{
		Question:      in.Question,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Category:      in.Category,
		Difficulty:    in.Difficulty,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	s.invalidateQuizCache(in.Category)
	return &dto.MessageResponse{Message: "Question updated successfully"}, nil
}

// DeleteQuestion elimina una pregunta del banco.
func (s *service) DeleteQuestion(ctx context.Context, id string) (*dto.MessageResponse, error) {
	if err := s.deps.Questions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	s.invalidateQuizCache("")
	return &dto.MessageResponse{Message: "Question deleted successfully"}, nil
}

// invalidateQuizCache borra las entradas que la mutación pudo ensuciar.
// Sin registro de claves por categoría, borra la global y la de la
// categoría tocada; las demás expiran por TTL.
func (s *service) invalidateQuizCache(category string) {
	if s.deps.QuizCache == nil {
		return
	}
	s.deps.QuizCache.Delete("quiz:questions:")
	s.deps.QuizCache.Delete("quiz:categories")
	if category != "" {
		s.deps.QuizCache.Delete("quiz:questions:" + category)
	}
}

// Stats devuelve los totales del sistema.
func (s *service) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	st, err := s.deps.Attempts.SystemStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		TotalUsers:     st.TotalUsers,
		TotalQuestions: st.TotalQuestions,
		TotalAttempts:  st.TotalAttempts,
	}, nil
}

// Results devuelve todos los intentos con el usuario y agregados globales.
func (s *service) Results(ctx context.Context) (*dto.ResultsResponse, error) {
	attempts, err := s.deps.Attempts.ListAllWithUser(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.deps.Attempts.SystemStats(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ResultRow, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, dto.ResultRow{
			ID:             a.ID,
			Username:       a.DisplayName,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			CorrectAnswers: a.CorrectAnswers,
			TimeTaken:      a.TimeTakenSecs,
			CompletedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.ResultsResponse{Results: rows, Stats: *stats}, nil
}
