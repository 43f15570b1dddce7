// Package quiz contiene el service del juego: preguntas, corrección de
// intentos, historial y ranking.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/dropDatabas3/secaware/internal/cache"
	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
	dto "github.com/dropDatabas3/secaware/internal/http/dto/quiz"
	"github.com/dropDatabas3/secaware/internal/observability/logger"
)

// DefaultQuestionCount es el tamaño de quiz cuando el cliente no pide otro.
const DefaultQuestionCount = 10

// Errores del quiz (sentinel)
var (
	ErrSubmitNoAnswers = errors.New("invalid answers format")
)

// Service define las operaciones del quiz.
type Service interface {
	Questions(ctx context.Context, category string, limit int) (*dto.QuestionsResponse, error)
	Categories(ctx context.Context) (*dto.CategoriesResponse, error)
	Submit(ctx context.Context, userID string, in dto.SubmitRequest) (*dto.SubmitResponse, error)
	Attempts(ctx context.Context, userID string) (*dto.AttemptsResponse, error)
	Stats(ctx context.Context, userID string) (*dto.StatsResponse, error)
	Leaderboard(ctx context.Context, limit int) (*dto.LeaderboardResponse, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Questions repository.QuestionRepository
	Attempts  repository.AttemptRepository
	Cache     cache.Cache // nil = sin cache
	CacheTTL  time.Duration
}

type service struct {
	deps Deps
}

// New crea el service del quiz.
func New(d Deps) Service {
	if d.CacheTTL <= 0 {
		d.CacheTTL = 5 * time.Minute
	}
	return &service{deps: d}
}

// Questions sirve preguntas en orden aleatorio sin la respuesta correcta.
// El banco por categoría se cachea; el shuffle es por request para que el
// cache no congele el orden.
func (s *service) Questions(ctx context.Context, category string, limit int) (*dto.QuestionsResponse, error) {
	if limit <= 0 {
		limit = DefaultQuestionCount
	}

	bank, err := s.questionBank(ctx, category)
	if err != nil {
		return nil, err
	}

	shuffled := make([]types.Question, len(bank))
	copy(shuffled, bank)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if len(shuffled) > limit {
		shuffled = shuffled[:limit]
	}

	out := make([]dto.PublicQuestion, 0, len(shuffled))
	for _, q := range shuffled {
		out = append(out, dto.PublicQuestion{
			ID:         q.ID,
			Question:   q.Question,
			Options:    q.Options,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		})
	}
	return &dto.QuestionsResponse{Questions: out}, nil
}

// questionBank trae el banco completo de la categoría, con cache.
func (s *service) questionBank(ctx context.Context, category string) ([]types.Question, error) {
	key := "quiz:questions:" + category

	if s.deps.Cache != nil {
		if raw, ok := s.deps.Cache.Get(key); ok {
			var bank []types.Question
			if err := json.Unmarshal(raw, &bank); err == nil {
				return bank, nil
			}
			// entrada corrupta: se descarta y se repuebla
			s.deps.Cache.Delete(key)
		}
	}

	bank, err := s.deps.Questions.List(ctx, repository.QuestionFilter{Category: category})
	if err != nil {
		logger.From(ctx).Error("question bank load failed", logger.Err(err), logger.Category(category))
		return nil, err
	}

	if s.deps.Cache != nil {
		if raw, err := json.Marshal(bank); err == nil {
			s.deps.Cache.Set(key, raw, s.deps.CacheTTL)
		}
	}
	return bank, nil
}

// Categories lista las categorías distintas (cacheadas).
func (s *service) Categories(ctx context.Context) (*dto.CategoriesResponse, error) {
	const key = "quiz:categories"

	if s.deps.Cache != nil {
		if raw, ok := s.deps.Cache.Get(key); ok {
			var cats []string
			if err := json.Unmarshal(raw, &cats); err == nil {
				return &dto.CategoriesResponse{Categories: cats}, nil
			}
			s.deps.Cache.Delete(key)
		}
	}

	cats, err := s.deps.Questions.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if s.deps.Cache != nil {
		if raw, err := json.Marshal(cats); err == nil {
			s.deps.Cache.Set(key, raw, s.deps.CacheTTL)
		}
	}
	return &dto.CategoriesResponse{Categories: cats}, nil
}

// Submit corrige el intento contra el banco real y lo persiste.
// La corrección es server-side: el cliente nunca ve la respuesta
// correcta antes de enviar.
func (s *service) Submit(ctx context.Context, userID string, in dto.SubmitRequest) (*dto.SubmitResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("quiz.submit"),
		logger.UserID(userID),
	)

	if len(in.Answers) == 0 {
		return nil, ErrSubmitNoAnswers
	}

	correct := 0
	total := len(in.Answers)
	results := make([]types.AnswerResult, 0, total)

	for _, ans := range in.Answers {
		q, err := s.deps.Questions.GetByID(ctx, ans.QuestionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// pregunta eliminada mientras el quiz estaba en curso
				log.Debug("answer skipped, question no longer exists", logger.QuestionID(ans.QuestionID))
				continue
			}
			return nil, err
		}

		ok := ans.SelectedAnswer == q.CorrectAnswer
		if ok {
			correct++
		}
		results = append(results, types.AnswerResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    ans.SelectedAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     ok,
		})
	}

	score := int(float64(correct)/float64(total)*100 + 0.5)

	attemptID, err := s.deps.Attempts.Create(ctx, repository.CreateAttemptInput{
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Results:        results,
		TimeTakenSecs:  in.TimeTaken,
	})
	if err != nil {
		log.Error("attempt persist failed", logger.Err(err))
		return nil, err
	}

	log.Info("quiz submitted", logger.AttemptID(attemptID), logger.Score(score))

	return &dto.SubmitResponse{
		Message:        "Quiz submitted successfully",
		AttemptID:      attemptID,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Results:        results,
	}, nil
}

// Attempts lista el historial propio del usuario.
func (s *service) Attempts(ctx context.Context, userID string) (*dto.AttemptsResponse, error) {
	attempts, err := s.deps.Attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AttemptView, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, dto.AttemptView{
			ID:             a.ID,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			CorrectAnswers: a.CorrectAnswers,
			Results:        a.Results,
			TimeTaken:      a.TimeTakenSecs,
			CompletedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &dto.AttemptsResponse{Attempts: out}, nil
}

// Stats devuelve los agregados del usuario.
func (s *service) Stats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	st, err := s.deps.Attempts.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{Stats: *st}, nil
}

// Leaderboard devuelve el ranking global (mejor score, menos tiempo).
func (s *service) Leaderboard(ctx context.Context, limit int) (*dto.LeaderboardResponse, error) {
	entries, err := s.deps.Attempts.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &dto.LeaderboardResponse{Leaderboard: entries}, nil
}
