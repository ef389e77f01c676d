package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/config"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/MonsieurBarti/quizz-webapp/internal/infra/memory"
	"github.com/MonsieurBarti/quizz-webapp/internal/infra/postgres"
	redisinfra "github.com/MonsieurBarti/quizz-webapp/internal/infra/redis"
	"github.com/MonsieurBarti/quizz-webapp/internal/logging"
	"github.com/MonsieurBarti/quizz-webapp/internal/metrics"
	transport "github.com/MonsieurBarti/quizz-webapp/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quizz-taker server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	deps, cleanup, err := buildDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()
	deps.Logger = log
	deps.Metrics = m
	deps.LeaderboardSize = cfg.LeaderboardSize()

	service := app.NewTakerService(deps)
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewServer(service, log, m).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting quizz-taker", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// buildDependencies picks Postgres or in-memory repositories and a Redis or in-memory cache layer.
func buildDependencies(ctx context.Context, cfg config.Config, log *zap.Logger) (app.Dependencies, func(), error) {
	var (
		deps    app.Dependencies
		closers []func()
		loader  memory.AnswerLoader
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return deps, cleanup, err
		}
		db := postgres.Open(cfg.Postgres.URL)
		closers = append(closers, func() { _ = db.Close() })
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return deps, func() {}, err
		}
		closers = append(closers, pool.Close)

		catalog := postgres.NewCatalog(pool)
		deps.Players = postgres.NewPlayerRepository(db)
		deps.Attempts = postgres.NewAttemptRepository(db)
		deps.Responses = postgres.NewResponseRepository(db)
		deps.Questions = catalog
		deps.Quizzes = catalog
		deps.Tx = postgres.NewTransactor(db)
		loader = catalog
	} else {
		log.Warn("postgres not configured, using in-memory repositories and the demo quizz")
		catalog := demoCatalog()
		deps.Players = memory.NewPlayerRepository()
		deps.Attempts = memory.NewAttemptRepository()
		deps.Responses = memory.NewResponseRepository()
		deps.Questions = catalog
		deps.Quizzes = catalog
		deps.Tx = memory.NewTransactor()
		loader = catalog
	}

	answersTTL := config.TTLDuration(cfg.Answers.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed, continuing with degraded cache", zap.Error(err))
		}
		deps.Answers = redisinfra.NewAnswerReader(client, loader, answersTTL)
		deps.Leaderboard = redisinfra.NewLeaderboard(client, config.TTLDuration(cfg.Redis.TTL, 24*time.Hour))
	} else {
		deps.Answers = memory.NewAnswerReader(loader, answersTTL)
		deps.Leaderboard = memory.NewLeaderboard()
	}
	return deps, cleanup, nil
}

// Demo content served when no database is configured.
const (
	demoQuizzID    = "6f1c2b8e-3a57-4d8e-9a59-0c6b1d2e7f10"
	demoAuthorID   = "0b5e8f3a-9c21-4f6d-8e47-2d1a3c5b7e90"
	demoQuestion1  = "a3d9e6c1-2b47-4f85-9e10-5c7b8d2a4f61"
	demoQuestion2  = "b8e2f7d4-6c39-4a51-8d72-1e9c3b5a7f02"
	demoAnswer1Bad = "c1f4a8e2-7d35-4b69-9a03-6e2d8c5b1f73"
	demoAnswer1Ok  = "d6a3b9f5-1e48-4c72-8b14-7f3e9d6c2a84"
	demoAnswer2Ok  = "e2b7c4a9-5f61-4d83-9c25-8a4f1e7d3b95"
	demoAnswer2Bad = "f9c5d1b6-3a72-4e94-8d36-9b5a2f8e4c06"
)

func demoCatalog() *memory.Catalog {
	catalog := memory.NewCatalog()
	catalog.AddQuizz(domain.Quizz{
		ID:          demoQuizzID,
		Title:       "Warm-up",
		Description: "Two quick questions",
		IsPublished: true,
		CreatedBy:   demoAuthorID,
	})
	catalog.AddQuestion(domain.Question{
		ID:      demoQuestion1,
		QuizzID: demoQuizzID,
		Text:    "What is 2 + 2?",
		Order:   1,
		Choices: []domain.Choice{{ID: demoAnswer1Bad, Text: "3"}, {ID: demoAnswer1Ok, Text: "4"}},
	}, demoAnswer1Ok)
	catalog.AddQuestion(domain.Question{
		ID:      demoQuestion2,
		QuizzID: demoQuizzID,
		Text:    "Which planet is closest to the sun?",
		Order:   2,
		Choices: []domain.Choice{{ID: demoAnswer2Ok, Text: "Mercury"}, {ID: demoAnswer2Bad, Text: "Venus"}},
	}, demoAnswer2Ok)
	return catalog
}
