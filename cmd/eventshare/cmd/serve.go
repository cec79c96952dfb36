package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"event-share/internal/app"
	"event-share/internal/config"
)

const startupTimeout = 30 * time.Second

func newUsersCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Serve the user-service (registration, login, token verification)",
		Long: `Serve the user-service backed by PostgreSQL.

Required environment: JWT_SECRET. The schema is created on startup.

Examples:
  eventshare users
  eventshare users --port 4001 --log-format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadUserService()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if port != "" {
				cfg.ServerPort = port
			}
			setupLogger(cfg)

			return serve(cmd.Context(), func(ctx context.Context) (*app.App, error) {
				return app.NewUserService(ctx, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default: $SERVER_PORT or 3001)")
	return cmd
}

func newEventsCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Serve the event-service (events, participants, comments)",
		Long: `Serve the event-service backed by MongoDB.

Writes are authenticated by calling USER_SERVICE_URI/auth/verify.

Examples:
  eventshare events
  USER_SERVICE_URI=http://users:3001 eventshare events --port 4002`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadEventService()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if port != "" {
				cfg.ServerPort = port
			}
			setupLogger(cfg)

			return serve(cmd.Context(), func(ctx context.Context) (*app.App, error) {
				return app.NewEventService(ctx, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default: $SERVER_PORT or 3002)")
	return cmd
}

func newDevCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Serve both services in one process with in-memory storage",
		Long: `Serve the user-service and the event-service together without
PostgreSQL or MongoDB. Data is lost on exit.

Ports: USER_SERVICE_PORT (default 3001), EVENT_SERVICE_PORT (default 3002).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			usersCfg, eventsCfg, err := config.LoadDev()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logCfg := *usersCfg
			logCfg.ServiceName = "dev"
			setupLogger(&logCfg)

			return serve(cmd.Context(), func(context.Context) (*app.App, error) {
				return app.NewDev(usersCfg, eventsCfg)
			})
		},
	}
}

func serve(ctx context.Context, build func(ctx context.Context) (*app.App, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	application, err := build(startCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Run(ctx)
}
