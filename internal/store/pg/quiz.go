package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/domain/types"
)

// ─── QuestionRepository ───

type questionRepo struct{ pool *pgxpool.Pool }

const questionColumns = `id, question, options, correct_answer, category, difficulty, created_at`

func scanQuestion(row pgx.Row) (*types.Question, error) {
	var q types.Question
	var options []byte
	err := row.Scan(&q.ID, &q.Question, &options, &q.CorrectAnswer, &q.Category, &q.Difficulty, &q.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &q, nil
}

func (r *questionRepo) List(ctx context.Context, f repository.QuestionFilter) ([]types.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM quiz_questions`
	args := []any{}
	if f.Category != "" {
		query += ` WHERE category = $1`
		args = append(args, f.Category)
	}
	if f.Shuffle {
		query += ` ORDER BY RANDOM()`
	} else {
		query += ` ORDER BY created_at DESC`
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: list questions: %w", err)
	}
	defer rows.Close()

	var out []types.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan question: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*types.Question, error) {
	const query = `SELECT ` + questionColumns + ` FROM quiz_questions WHERE id = $1`
	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("pg: get question: %w", err)
	}
	return q, err
}

func (r *questionRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM quiz_questions WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("pg: categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *questionRepo) Create(ctx context.Context, in repository.CreateQuestionInput) (*types.Question, error) {
	options, err := json.Marshal(in.Options)
	if err != nil {
		return nil, fmt.Errorf("pg: encode options: %w", err)
	}
	const query = `
		INSERT INTO quiz_questions (id, question, options, correct_answer, category, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.pool.QueryRow(ctx, query,
		uuid.NewString(), in.Question, options, in.CorrectAnswer, in.Category, in.Difficulty))
	if err != nil {
		return nil, fmt.Errorf("pg: create question: %w", err)
	}
	return q, nil
}

func (r *questionRepo) Update(ctx context.Context, id string, in repository.CreateQuestionInput) error {
	options, err := json.Marshal(in.Options)
	if err != nil {
		return fmt.Errorf("pg: encode options: %w", err)
	}
	const query = `
		UPDATE quiz_questions
		SET question = $2, options = $3, correct_answer = $4, category = $5, difficulty = $6
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, in.Question, options, in.CorrectAnswer, in.Category, in.Difficulty)
	if err != nil {
		return fmt.Errorf("pg: update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quiz_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pg: delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ─── AttemptRepository ───

type attemptRepo struct{ pool *pgxpool.Pool }

func (r *attemptRepo) Create(ctx context.Context, in repository.CreateAttemptInput) (string, error) {
	results, err := json.Marshal(in.Results)
	if err != nil {
		return "", fmt.Errorf("pg: encode results: %w", err)
	}
	id := uuid.NewString()
	const query = `
		INSERT INTO quiz_attempts (id, user_id, score, total_questions, correct_answers, answers, time_taken_secs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.pool.Exec(ctx, query,
		id, in.UserID, in.Score, in.TotalQuestions, in.CorrectAnswers, results, in.TimeTakenSecs); err != nil {
		return "", fmt.Errorf("pg: create attempt: %w", err)
	}
	return id, nil
}

func (r *attemptRepo) ListByUser(ctx context.Context, userID string) ([]types.Attempt, error) {
	const query = `
		SELECT id, user_id, score, total_questions, correct_answers, answers, time_taken_secs, created_at
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: list attempts: %w", err)
	}
	defer rows.Close()

	var out []types.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) ListAllWithUser(ctx context.Context) ([]types.AttemptWithUser, error) {
	const query = `
		SELECT qa.id, qa.user_id, qa.score, qa.total_questions, qa.correct_answers,
		       qa.answers, qa.time_taken_secs, qa.created_at, u.display_name
		FROM quiz_attempts qa
		JOIN users u ON u.id = qa.user_id
		ORDER BY qa.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pg: list all attempts: %w", err)
	}
	defer rows.Close()

	var out []types.AttemptWithUser
	for rows.Next() {
		var a types.AttemptWithUser
		var results []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions,
			&a.CorrectAnswers, &results, &a.TimeTakenSecs, &a.CreatedAt, &a.DisplayName); err != nil {
			return nil, fmt.Errorf("pg: scan attempt: %w", err)
		}
		if len(results) > 0 {
			if err := json.Unmarshal(results, &a.Results); err != nil {
				return nil, fmt.Errorf("pg: decode results: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttempt(row pgx.Row) (*types.Attempt, error) {
	var a types.Attempt
	var results []byte
	if err := row.Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions,
		&a.CorrectAnswers, &results, &a.TimeTakenSecs, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("pg: scan attempt: %w", err)
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &a.Results); err != nil {
			return nil, fmt.Errorf("pg: decode results: %w", err)
		}
	}
	return &a, nil
}

func (r *attemptRepo) UserStats(ctx context.Context, userID string) (*types.UserStats, error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(AVG(score), 0),
		       COALESCE(MAX(score), 0),
		       COALESCE(SUM(time_taken_secs), 0)
		FROM quiz_attempts
		WHERE user_id = $1`
	var st types.UserStats
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&st.TotalAttempts, &st.AverageScore, &st.BestScore, &st.TotalTimeSecs); err != nil {
		return nil, fmt.Errorf("pg: user stats: %w", err)
	}
	return &st, nil
}

func (r *attemptRepo) Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT u.display_name, qa.score, qa.total_questions, qa.correct_answers, qa.created_at
		FROM quiz_attempts qa
		JOIN users u ON u.id = qa.user_id
		ORDER BY qa.score DESC, qa.time_taken_secs ASC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pg: leaderboard: %w", err)
	}
	defer rows.Close()

	var out []types.LeaderboardEntry
	for rows.Next() {
		var e types.LeaderboardEntry
		if err := rows.Scan(&e.DisplayName, &e.Score, &e.TotalQuestions, &e.CorrectAnswers, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *attemptRepo) SystemStats(ctx context.Context) (*types.SystemStats, error) {
	var st types.SystemStats
	const query = `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM quiz_questions),
		       (SELECT COUNT(*) FROM quiz_attempts),
		       COALESCE((SELECT AVG(score) FROM quiz_attempts), 0)`
	if err := r.pool.QueryRow(ctx, query).Scan(
		&st.TotalUsers, &st.TotalQuestions, &st.TotalAttempts, &st.AverageScore); err != nil {
		return nil, fmt.Errorf("pg: system stats: %w", err)
	}

	const recent = `
		SELECT id, user_id, score, total_questions, correct_answers, answers, time_taken_secs, created_at
		FROM quiz_attempts
		ORDER BY created_at DESC
		LIMIT 10`
	rows, err := r.pool.Query(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("pg: recent attempts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		st.RecentAttempts = append(st.RecentAttempts, *a)
	}
	return &st, rows.Err()
}

func (r *attemptRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM quiz_attempts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pg: delete attempts: %w", err)
	}
	return nil
}
