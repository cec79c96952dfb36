package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"event-share/internal/config"
	"event-share/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema and MongoDB indexes, then exit",
		Long: `Create the users table (and later columns) in DATABASE_URL and the
event indexes in MONGO_URI. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadMigrate()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			setupLogger(cfg)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{MaxConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureSchema(ctx); err != nil {
				return err
			}

			mongo, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return err
			}
			defer func() { _ = mongo.Close(context.Background()) }()

			if err := mongo.EnsureIndexes(ctx); err != nil {
				return err
			}

			slog.Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall migration timeout")
	return cmd
}
