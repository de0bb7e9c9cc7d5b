package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/config"
	"cybersense-learning-service/internal/infra/memory"
	pgstore "cybersense-learning-service/internal/infra/postgres"
	redisstore "cybersense-learning-service/internal/infra/redis"
	"cybersense-learning-service/internal/logging"
	transport "cybersense-learning-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the learning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Dev)
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Repository wiring: Postgres when configured, process memory
	// otherwise. The memory stores keep local development and tests
	// free of external services.
	var (
		content  app.ContentRepository
		source   app.QuestionSource
		users    app.UserRepository
		progress app.ProgressRepository
		forum    app.ForumRepository
	)
	if pool != nil {
		store := pgstore.NewContentStore(pool)
		content, source = store, store
		users = pgstore.NewUserStore(pool)
		progress = pgstore.NewProgressStore(pool)
		forum = pgstore.NewForumStore(pool)
	} else {
		store := seededContentStore()
		content, source = store, store
		users = memory.NewUserStore()
		progress = memory.NewProgressStore()
		forum = memory.NewForumStore()
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	var invalidator app.QuestionCacheInvalidator
	if redisClient != nil {
		cache := redisstore.NewQuestionCache(redisClient, source, cacheTTL)
		source, invalidator = cache, cache
	} else {
		cache := memory.NewQuestionCache(source, cacheTTL)
		source, invalidator = cache, cache
	}

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	identity := memory.NewIdentity()
	attempts := memory.NewAttemptStore()

	lockout := config.TTLDuration(cfg.Auth.LockoutWindow, 5*time.Minute)
	authSvc := app.NewAuthService(identity, users, sessions, cfg.Auth.MaxAttempts, lockout, log)
	quizSvc := app.NewQuizService(source, content, attempts, progress, cfg.Quiz.PassingScore, log)
	contentSvc := app.NewContentService(content, invalidator)
	userSvc := app.NewUserService(users, identity, log)
	forumSvc := app.NewForumService(forum, users)

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 8*time.Hour)
	issuer := transport.NewTokenIssuer(cfg.Auth.JWTSecret, tokenTTL)

	router := transport.NewRouter(transport.RouterDeps{
		Issuer:   issuer,
		Auth:     transport.NewAuthHandler(authSvc, issuer, log),
		Content:  transport.NewContentHandler(contentSvc, log),
		Users:    transport.NewUserHandler(userSvc, log),
		Forum:    transport.NewForumHandler(forumSvc, log),
		Progress: transport.NewProgressHandler(quizSvc, log),
		WS:       transport.NewWSHandler(quizSvc, log),
		Origins:  cfg.CORS.Origins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting learning service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down")
	case <-ctx.Done():
		log.Info("context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
