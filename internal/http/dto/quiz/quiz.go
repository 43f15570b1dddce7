// Package quiz contiene DTOs para los endpoints del quiz.
package quiz

import "github.com/dropDatabas3/secaware/internal/domain/types"

// PublicQuestion es una pregunta sin la respuesta correcta.
type PublicQuestion struct {
	ID         string   `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// QuestionsResponse agrupa las preguntas servidas al cliente.
type QuestionsResponse struct {
	Questions []PublicQuestion `json:"questions"`
}

// CategoriesResponse lista las categorías disponibles.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// Answer es la respuesta del cliente a una pregunta.
type Answer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// SubmitRequest representa el envío de un intento completo.
type SubmitRequest struct {
	Answers   []Answer `json:"answers"`
	TimeTaken int      `json:"timeTaken"`
}

// SubmitResponse devuelve el intento corregido.
type SubmitResponse struct {
	Message        string               `json:"message"`
	AttemptID      string               `json:"attemptId"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"totalQuestions"`
	CorrectAnswers int                  `json:"correctAnswers"`
	Results        []types.AnswerResult `json:"results"`
}

// AttemptsResponse lista los intentos propios del usuario.
type AttemptsResponse struct {
	Attempts []AttemptView `json:"attempts"`
}

// AttemptView es la proyección JSON de un intento.
type AttemptView struct {
	ID             string               `json:"id"`
	Score          int                  `json:"score"`
	TotalQuestions int                  `json:"total_questions"`
	CorrectAnswers int                  `json:"correct_answers"`
	Results        []types.AnswerResult `json:"results,omitempty"`
	TimeTaken      int                  `json:"time_taken"`
	CompletedAt    string               `json:"completed_at"`
}

// StatsResponse devuelve los agregados del usuario.
type StatsResponse struct {
	Stats types.UserStats `json:"stats"`
}

// LeaderboardResponse devuelve el ranking global.
type LeaderboardResponse struct {
	Leaderboard []types.LeaderboardEntry `json:"leaderboard"`
}
