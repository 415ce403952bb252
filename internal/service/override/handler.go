package override

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/sleep-watch/internal/domain/sleep"
	"github.com/oshokin/sleep-watch/internal/logger"
)

const (
	// AckDisallowed is the acknowledgement of disallow_sleep.
	AckDisallowed = "Sleep permission revoked."

	ackLayout = time.DateTime
)

// Store is everything the handler reads and writes.
type Store interface {
	WindowStore
	Detections(ctx context.Context) (sleep.DetectedSet, error)
}

// Status is a read-only snapshot of the shared state.
type Status struct {
	// AllowSleepUntil is the stored expiry, zero when absent.
	AllowSleepUntil time.Time
	// OverrideActive is true when the stored expiry is in the future.
	OverrideActive bool
	// Detections is the number of stored detection instants.
	Detections int
}

// Handler executes override commands.
type Handler struct {
	store Store
	gate  *Gate
	now   func() time.Time
}

// NewHandler creates a handler. A nil now uses time.Now.
func NewHandler(store Store, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{
		store: store,
		gate:  NewGate(store),
		now:   now,
	}
}

// AllowSleep parses expr against the current time and stores the expiry.
// Invalid expressions wrap sleep.ErrInvalidDurationFormat and leave state untouched.
func (h *Handler) AllowSleep(ctx context.Context, expr string) (time.Time, string, error) {
	expiry, err := sleep.ParseOverride(expr, h.now())
	if err != nil {
		return time.Time{}, "", err
	}

	if err = h.gate.Set(ctx, expiry); err != nil {
		logger.ErrorKV(ctx, "Failed to store sleep override", "error", err)

		return time.Time{}, "", fmt.Errorf("set override: %w", err)
	}

	logger.InfoKV(ctx, "Sleep override set", "expression", expr, "until", expiry.Format(time.RFC3339))

	return expiry, fmt.Sprintf("Sleep allowed until %s.", expiry.Format(ackLayout)), nil
}

// DisallowSleep clears the override window.
func (h *Handler) DisallowSleep(ctx context.Context) (string, error) {
	if err := h.gate.Clear(ctx); err != nil {
		logger.ErrorKV(ctx, "Failed to clear sleep override", "error", err)

		return "", fmt.Errorf("clear override: %w", err)
	}

	logger.Info(ctx, "Sleep override cleared")

	return AckDisallowed, nil
}

// Status reads the shared state without expiring anything.
func (h *Handler) Status(ctx context.Context) (*Status, error) {
	expiry, ok, err := h.store.Override(ctx)
	if err != nil {
		return nil, fmt.Errorf("read override: %w", err)
	}

	set, err := h.store.Detections(ctx)
	if err != nil {
		return nil, fmt.Errorf("read detections: %w", err)
	}

	status := &Status{
		Detections: len(set),
	}

	if ok {
		status.AllowSleepUntil = expiry
		status.OverrideActive = expiry.After(h.now())
	}

	return status, nil
}
