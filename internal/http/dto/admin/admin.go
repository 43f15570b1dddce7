// Package admin contiene DTOs para el panel de administración.
package admin

import "github.com/dropDatabas3/secaware/internal/domain/types"

// UserRow es la proyección de un usuario en el listado admin.
type UserRow struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// UsersResponse lista todos los usuarios registrados.
type UsersResponse struct {
	Users []UserRow `json:"users"`
}

// QuestionRow es una pregunta completa, respuesta correcta incluida.
// Sólo viaja por rutas admin.
type QuestionRow struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	CreatedAt     string   `json:"created_at"`
}

// QuestionsResponse lista el banco completo de preguntas.
type QuestionsResponse struct {
	Questions []QuestionRow `json:"questions"`
}

// QuestionRequest representa la creación o edición de una pregunta.
type QuestionRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

// MessageResponse es la respuesta genérica con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatsResponse devuelve los totales del sistema.
type StatsResponse struct {
	TotalUsers     int `json:"total_users"`
	TotalQuestions int `json:"total_questions"`
	TotalAttempts  int `json:"total_attempts"`
}

// ResultRow es un intento con el usuario que lo hizo.
type ResultRow struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	TimeTaken      int    `json:"time_taken"`
	CompletedAt    string `json:"completed_at"`
}

// ResultsResponse devuelve todos los intentos con agregados globales.
type ResultsResponse struct {
	Results []ResultRow       `json:"results"`
	Stats   types.SystemStats `json:"stats"`
}
