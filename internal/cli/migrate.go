package cli

import (
	"context"
	"errors"

	"github.com/MonsieurBarti/quizz-webapp/internal/config"
	"github.com/MonsieurBarti/quizz-webapp/internal/infra/postgres"
	pgmigrations "github.com/MonsieurBarti/quizz-webapp/internal/infra/postgres/migrations"
	"github.com/MonsieurBarti/quizz-webapp/internal/logging"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runMigrations(cmd.Context(), cfg, log)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return errors.New("postgres url not configured")
	}

	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("database schema up to date")
		return nil
	}
	log.Info("migrations applied", zap.String("group", group.String()))
	return nil
}
