package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/sleep-watch/internal/logger"
)

// DefaultPollInterval is the pause between two detection cycles.
const DefaultPollInterval = time.Minute

// Schedule runs cycle, waits interval after it returns and repeats until ctx
// is cancelled. Errors and panics of a cycle are logged and never stop the loop.
func Schedule(ctx context.Context, interval time.Duration, cycle func(context.Context) error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for ctx.Err() == nil {
		if err := runSafely(ctx, cycle); err != nil {
			logger.ErrorKV(ctx, "Detection cycle failed", "error", err)
		}

		timer := time.NewTimer(interval)

		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	logger.Info(ctx, "Scheduler stopped")
}

// runSafely converts a panic of cycle into an error.
func runSafely(ctx context.Context, cycle func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r) //nolint:err113 // Carries the panic value.
		}
	}()

	return cycle(ctx)
}
