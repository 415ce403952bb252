package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sleep-watch/internal/config"
	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/service/watcher"
	"github.com/oshokin/sleep-watch/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the configuration.
	logLevel string
	// storeKind overrides store.kind from the configuration.
	storeKind string

	// rootCmd represents the base command for running the watcher.
	rootCmd = &cobra.Command{
		Use:   "sleep-watcher [listen-address]",
		Short: "Watch a motion sensor and raise an alarm when you fall asleep.",
		Long: `Polls the motion sensor once a minute and keeps the recent motion instants in the store.

When count_threshold motions fall inside the last duration_threshold minutes, the
watcher posts a notification and plays the configured media on the cast device,
unless sleep was allowed with sleep-override.

Only the port from server_addr is used for listening (e.g., :7010).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:7010).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return watcher.Run(ctx, &watcher.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				LogLevel:      logLevel,
				StoreKind:     storeKind,
			})
		},
	}
)

// Execute runs the sleep-watcher CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&storeKind, "store", "", "store kind override: redis, file or memory")
}
