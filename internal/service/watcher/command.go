package watcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/sleep-watch/internal/api/grpc/sleep"
	"github.com/oshokin/sleep-watch/internal/config"
	"github.com/oshokin/sleep-watch/internal/domain/sleep"
	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/notify"
	pb "github.com/oshokin/sleep-watch/internal/pb/v1"
	"github.com/oshokin/sleep-watch/internal/playback"
	"github.com/oshokin/sleep-watch/internal/repository/state"
	"github.com/oshokin/sleep-watch/internal/sensor"
	"github.com/oshokin/sleep-watch/internal/service/override"
)

// Options controls the sleep-watcher process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// LogLevel overrides log_level from the config when set.
	LogLevel string
	// StoreKind overrides store.kind from the config when set.
	StoreKind string
	// PollInterval is the pause between cycles; zero means DefaultPollInterval.
	PollInterval time.Duration
	// Notifier replaces the configured notification sinks when set.
	Notifier notify.Notifier
	// Player replaces the cast device when set.
	Player playback.Player
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the command surface and the detection loop and blocks until ctx
// is canceled or the gRPC server fails.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sleep-watcher")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(ctx, cfg.LogLevel, opts.LogLevel)

	listenAddress, err := resolveListenAddress(cfg.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	kv, err := openStore(cfg.Store, opts.StoreKind)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close store", "error", closeErr)
		}
	}()

	repo := state.NewRepository(kv)

	notifier := opts.Notifier
	if notifier == nil {
		var closeNotifier func()

		notifier, closeNotifier, err = newNotifier(cfg)
		if err != nil {
			return fmt.Errorf("set up notifications: %w", err)
		}

		defer closeNotifier()
	}

	player := opts.Player
	if player == nil {
		player = playback.NewChromecast(cfg.Cast.Port)
	}

	controller := NewController(Dependencies{
		DeviceID: cfg.Sensor.DeviceID,
		Source:   sensor.NewClient(cfg.Sensor.BaseURL, cfg.Sensor.Token, sensor.WithTimeout(cfg.Timeout)),
		Store:    repo,
		Notifier: notifier,
		Player:   player,
		Target: playback.Target{
			Host:       cfg.Cast.Host,
			Volume:     *cfg.Cast.Volume,
			ContentURL: cfg.Cast.ContentURL,
		},
		Thresholds: sleep.Thresholds{
			Count:  cfg.Detection.CountThreshold,
			Window: cfg.Detection.Window(),
		},
		Message: cfg.Notify.Message,
	})

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryLogger(ctx)))
	pb.RegisterSleepServiceServer(grpcServer, api.NewServer(override.NewHandler(repo, nil)))

	logger.InfoKV(ctx, "Sleep watcher started",
		"listen_address", listenAddress,
		"device_id", cfg.Sensor.DeviceID,
		"count_threshold", cfg.Detection.CountThreshold,
		"window", cfg.Detection.Window().String(),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		Schedule(groupCtx, opts.PollInterval, func(ctx context.Context) error {
			report, err := controller.RunCycle(ctx)
			if err != nil {
				return err
			}

			logger.DebugKV(ctx, "Cycle finished", "state", report.State, "detections", report.Detections)

			return nil
		})

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()

		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Sleep watcher stopped")

	return nil
}

// applyLogLevel sets the global level from the flag or the config, flag first.
func applyLogLevel(ctx context.Context, configured, override string) {
	name := configured
	if override != "" {
		name = override
	}

	lvl, ok := logger.ParseLogLevel(name)
	if !ok {
		logger.WarnKV(ctx, "Unknown log level, using info", "log_level", name)
	}

	logger.SetLevel(lvl)
}

// openStore opens the configured KV, honoring a kind override.
//
//nolint:ireturn // The backend is chosen at runtime.
func openStore(store config.Store, kindOverride string) (state.KV, error) {
	kind := store.Kind
	if kindOverride != "" {
		kind = kindOverride
	}

	var target string

	switch kind {
	case state.KindRedis:
		if store.URL == "" {
			return nil, fmt.Errorf("store.url: %w", config.ErrConfigMissing)
		}

		target = store.URL
	case state.KindFile:
		target = store.Path
		if target == "" {
			target = config.DefaultStateFilename
		}
	}

	return state.Open(kind, target)
}

// newNotifier builds the webhook sink and, when a broker is configured, the MQTT mirror.
//
//nolint:ireturn // Callers only need the Notifier behavior.
func newNotifier(cfg *config.Config) (notify.Notifier, func(), error) {
	sinks := notify.Fanout{notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Timeout)}

	if cfg.Notify.MQTT.Broker == "" {
		return sinks, func() {}, nil
	}

	mqtt, err := notify.NewMQTT(cfg.Notify.MQTT.Broker, cfg.Notify.MQTT.Topic)
	if err != nil {
		return nil, nil, err
	}

	closeMQTT := func() {
		_ = mqtt.Close() //nolint:errcheck // Best effort on shutdown.
	}

	return append(sinks, mqtt), closeMQTT, nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return ":" + port, nil
}
