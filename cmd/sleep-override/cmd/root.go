package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sleep-watch/internal/config"
	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/service/client"
	"github.com/oshokin/sleep-watch/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides server_addr from the configuration.
	serverAddress string
	// logLevel sets the client log level.
	logLevel string

	// rootCmd groups the override subcommands.
	rootCmd = &cobra.Command{
		Use:   "sleep-override",
		Short: "Allow or forbid sleeping without triggering the alarm.",
		Long: `Sends override commands to a running sleep-watcher.

While sleep is allowed the watcher keeps counting motion but stays quiet.
The window ends on its own at the requested time or with "disallow".`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}
		},
	}

	allowCmd = &cobra.Command{
		Use:   "allow <duration>",
		Short: "Allow sleep for 30m, 7h or until HH:MM.",
		Long: `Allows sleep until the given time.

  30m    thirty minutes from now
  7h     seven hours from now
  23:30  the next 23:30 in the watcher's local time (today, or tomorrow if already past)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, client.CommandAllow, args[0])
		},
	}

	disallowCmd = &cobra.Command{
		Use:   "disallow",
		Short: "Revoke a sleep permission.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, client.CommandDisallow, "")
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the override window and the number of recent detections.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, client.CommandStatus, "")
		},
	}
)

// run executes one override command with signal-aware cancellation.
func run(cmd *cobra.Command, command client.Command, duration string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return client.Run(ctx, &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Command:       command,
		Duration:      duration,
		Out:           cmd.OutOrStdout(),
	})
}

// Execute runs the sleep-override CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "watcher address, overrides server_addr")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(allowCmd, disallowCmd, statusCmd)
}
