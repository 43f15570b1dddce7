package types

import "time"

// Question es una pregunta del banco. CorrectAnswer nunca viaja al cliente
// en los endpoints públicos.
type Question struct {
	ID            string
	Question      string
	Options       []string
	CorrectAnswer string
	Category      string
	Difficulty    string
	CreatedAt     time.Time
}

// AnswerResult es el resultado por pregunta de un intento corregido.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// Attempt es un intento de quiz persistido ya corregido.
type Attempt struct {
	ID             string
	UserID         string
	Score          int // porcentaje 0..100
	TotalQuestions int
	CorrectAnswers int
	Results        []AnswerResult
	TimeTakenSecs  int
	CreatedAt      time.Time
}

// LeaderboardEntry es una fila del ranking global.
type LeaderboardEntry struct {
	DisplayName    string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttemptWithUser es un intento junto al nombre del usuario que lo hizo.
// Sólo lo usan las vistas admin.
type AttemptWithUser struct {
	Attempt
	DisplayName string
}

// UserStats son los agregados de intentos de un usuario.
type UserStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	BestScore     int     `json:"best_score"`
	TotalTimeSecs int     `json:"total_time_secs"`
}

// SystemStats son los agregados globales para el dashboard admin.
type SystemStats struct {
	TotalUsers     int       `json:"total_users"`
	TotalQuestions int       `json:"total_questions"`
	TotalAttempts  int       `json:"total_attempts"`
	AverageScore   float64   `json:"average_score"`
	RecentAttempts []Attempt `json:"recent_attempts"`
}
