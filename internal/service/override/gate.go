package override

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/sleep-watch/internal/domain/sleep"
	"github.com/oshokin/sleep-watch/internal/logger"
)

// WindowStore persists the override expiry.
type WindowStore interface {
	Override(ctx context.Context) (time.Time, bool, error)
	SaveOverride(ctx context.Context, expiry time.Time) error
	ClearOverride(ctx context.Context) error
}

// Gate holds, queries and clears the override window.
type Gate struct {
	store WindowStore
}

// NewGate creates a gate over store.
func NewGate(store WindowStore) *Gate {
	return &Gate{store: store}
}

// Set overwrites the window. Past expiries are accepted and simply have no effect.
func (g *Gate) Set(ctx context.Context, expiry time.Time) error {
	return g.store.SaveOverride(ctx, expiry)
}

// Clear removes the window; no-op when absent.
func (g *Gate) Clear(ctx context.Context) error {
	return g.store.ClearOverride(ctx)
}

// IsActive reports whether an override is active at now.
// An expiry at or before now is deleted and reported inactive; so is a
// stored value that is not a valid instant.
func (g *Gate) IsActive(ctx context.Context, now time.Time) (bool, error) {
	expiry, ok, err := g.store.Override(ctx)
	if errors.Is(err, sleep.ErrInvalidInstant) {
		logger.WarnKV(ctx, "Discarding unreadable sleep override", "error", err)

		if err = g.store.ClearOverride(ctx); err != nil {
			return false, fmt.Errorf("expire override: %w", err)
		}

		return false, nil
	}

	if err != nil {
		return false, err
	}

	if !ok {
		return false, nil
	}

	if expiry.After(now) {
		return true, nil
	}

	if err = g.store.ClearOverride(ctx); err != nil {
		return false, fmt.Errorf("expire override: %w", err)
	}

	logger.InfoKV(ctx, "Sleep override expired", "until", expiry.Format(time.RFC3339))

	return false, nil
}
