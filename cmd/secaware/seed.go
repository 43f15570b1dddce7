package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/secaware/internal/config"
	"github.com/dropDatabas3/secaware/internal/domain/repository"
	"github.com/dropDatabas3/secaware/internal/store/pg"
)

// seedQuestion es el formato del archivo JSON de carga inicial.
type seedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga el banco de preguntas desde un JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "data/questions.json", "Archivo JSON con las preguntas")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, file string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", file, err)
	}
	var questions []seedQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return fmt.Errorf("seed: parse %s: %w", file, err)
	}
	if len(questions) == 0 {
		fmt.Println("Archivo vacío, nada para cargar.")
		return nil
	}

	store, err := pg.Connect(ctx, pg.Config{
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	repo := store.Questions()
	created := 0
	for i, q := range questions {
		if q.Question == "" || len(q.Options) == 0 || q.CorrectAnswer == "" || q.Category == "" {
			return fmt.Errorf("seed: entrada %d incompleta (question/options/correct_answer/category)", i)
		}
		if _, err := repo.Create(ctx, repository.CreateQuestionInput{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			Difficulty:    q.Difficulty,
		}); err != nil {
			return fmt.Errorf("seed: insert entrada %d: %w", i, err)
		}
		created++
	}
	fmt.Printf("%d pregunta(s) cargada(s).\n", created)
	return nil
}
