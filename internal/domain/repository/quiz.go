package repository

import (
	"context"

	"github.com/dropDatabas3/secaware/internal/domain/types"
)

// QuestionFilter filtra el listado de preguntas.
type QuestionFilter struct {
	Category string
	Limit    int
	// Shuffle pide orden aleatorio (endpoint público de juego).
	Shuffle bool
}

// CreateQuestionInput son los datos para alta/edición de una pregunta.
type CreateQuestionInput struct {
	Question      string
	Options       []string
	CorrectAnswer string
	Category      string
	Difficulty    string
}

// QuestionRepository persiste el banco de preguntas.
type QuestionRepository interface {
	List(ctx context.Context, f QuestionFilter) ([]types.Question, error)
	GetByID(ctx context.Context, id string) (*types.Question, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in CreateQuestionInput) (*types.Question, error)
	Update(ctx context.Context, id string, in CreateQuestionInput) error
	Delete(ctx context.Context, id string) error
}

// CreateAttemptInput es un intento ya corregido listo para persistir.
type CreateAttemptInput struct {
	UserID         string
	Score          int
	TotalQuestions int
	CorrectAnswers int
	Results        []types.AnswerResult
	TimeTakenSecs  int
}

// AttemptRepository persiste intentos y sirve los agregados de ranking/stats.
type AttemptRepository interface {
	Create(ctx context.Context, in CreateAttemptInput) (string, error)
	ListByUser(ctx context.Context, userID string) ([]types.Attempt, error)
	ListAllWithUser(ctx context.Context) ([]types.AttemptWithUser, error)
	UserStats(ctx context.Context, userID string) (*types.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
	SystemStats(ctx context.Context) (*types.SystemStats, error)
	DeleteByUser(ctx context.Context, userID string) error
}
