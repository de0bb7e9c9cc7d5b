package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/config"
	"cybersense-learning-service/internal/domain"
	"cybersense-learning-service/internal/infra/memory"
	pgstore "cybersense-learning-service/internal/infra/postgres"
)

// NewSeedCmd loads the demo content into the configured Postgres
// instance. Memory-backed runs get the same content automatically at
// start.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo modules, quizzes and questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := loadDemoContent(cmd.Context(), pgstore.NewContentStore(pool)); err != nil {
				return err
			}
			log.Info("demo content loaded", zap.Int("modules", len(demoModules())))
			return nil
		},
	}
}

// seededContentStore provides the demo content tree for memory-backed
// runs; production deployments seed Postgres with the seed command.
func seededContentStore() *memory.ContentStore {
	store := memory.NewContentStore()
	// A fresh memory store cannot conflict.
	_ = loadDemoContent(context.Background(), store)
	return store
}

type demoModule struct {
	module    domain.Module
	quiz      domain.Quiz
	questions []domain.Question
}

func loadDemoContent(ctx context.Context, repo app.ContentRepository) error {
	for _, entry := range demoModules() {
		if err := repo.CreateModule(ctx, entry.module); err != nil {
			return fmt.Errorf("seed module %s: %w", entry.module.ID, err)
		}
		if err := repo.CreateQuiz(ctx, entry.quiz); err != nil {
			return fmt.Errorf("seed quiz %s: %w", entry.quiz.ID, err)
		}
		for _, q := range entry.questions {
			if err := repo.CreateQuestion(ctx, entry.module.ID, entry.quiz.ID, q); err != nil {
				return fmt.Errorf("seed question %s: %w", q.ID, err)
			}
		}
	}
	return nil
}

func demoModules() []demoModule {
	return []demoModule{
		{
			module: domain.Module{
				ID:          "Password Security",
				Name:        "Password Security",
				Description: "Choosing, storing and protecting strong passwords.",
				Duration:    "20 min",
				Difficulty:  domain.DifficultyBeginner,
			},
			quiz: domain.Quiz{
				ID:         "Password Basics",
				ModuleID:   "Password Security",
				Name:       "Password Basics",
				Difficulty: domain.DifficultyBeginner,
			},
			questions: []domain.Question{
				{
					ID:            "q-pw-1",
					Text:          "Which of these is the strongest password?",
					Options:       []string{"password123", "Summer2020", "x7!Kp#9vQz&2", "qwerty"},
					CorrectOption: "x7!Kp#9vQz&2",
				},
				{
					ID:            "q-pw-2",
					Text:          "How often should you reuse a password across sites?",
					Options:       []string{"Always", "Only for unimportant sites", "Never", "Every other site"},
					CorrectOption: "Never",
				},
			},
		},
		{
			module: domain.Module{
				ID:          "Phishing Awareness",
				Name:        "Phishing Awareness",
				Description: "Recognising and reporting phishing attempts.",
				Duration:    "30 min",
				Difficulty:  domain.DifficultyPro,
			},
			quiz: domain.Quiz{
				ID:         "Spot the Phish",
				ModuleID:   "Phishing Awareness",
				Name:       "Spot the Phish",
				Difficulty: domain.DifficultyPro,
			},
			questions: []domain.Question{
				{
					ID:            "q-ph-1",
					Text:          "An email urges you to verify your account within the hour. What do you do?",
					Options:       []string{"Click the link immediately", "Reply with your details", "Report it and visit the site directly", "Forward it to colleagues"},
					CorrectOption: "Report it and visit the site directly",
				},
			},
		},
	}
}
