package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"event-share/internal/config"
	"event-share/internal/logger"
)

// Global flags; they override LOG_LEVEL and LOG_FORMAT.
var (
	logLevel  string
	logFormat string
)

var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "eventshare",
		Short: "Event sharing backend: user-service and event-service",
		Long: `eventshare runs the two services of the event sharing backend.

The user-service registers users, issues signed tokens and answers
/auth/verify. The event-service stores events, participants and comments
and asks the user-service who the caller is before any write.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: $LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (pretty, json) (default: $LOG_FORMAT or pretty)")

	root.AddCommand(newUsersCommand())
	root.AddCommand(newEventsCommand())
	root.AddCommand(newDevCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newHealthcheckCommand())
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger installs the process logger for cfg, honouring the global flags.
func setupLogger(cfg *config.Config) {
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.ServiceName, cfg.LogFormat, cfg.LogLevel))
}
