package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/sleep-watch/internal/domain/sleep"
	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/notify"
	"github.com/oshokin/sleep-watch/internal/playback"
	"github.com/oshokin/sleep-watch/internal/sensor"
	"github.com/oshokin/sleep-watch/internal/service/override"
)

// ErrCollaboratorUnavailable wraps failures of the store, the sensor, the
// notification sink or the playback device.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// Store is the persisted state a cycle reads and writes.
type Store interface {
	override.WindowStore
	Detections(ctx context.Context) (sleep.DetectedSet, error)
	SaveDetections(ctx context.Context, set sleep.DetectedSet) error
	ClearDetections(ctx context.Context) error
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	// DeviceID is the monitored sensor device.
	DeviceID string
	// Source reports motion events.
	Source sensor.Source
	// Store keeps the detection set and the override window.
	Store Store
	// Notifier receives the sleep notification.
	Notifier notify.Notifier
	// Player drives the cast device.
	Player playback.Player
	// Target is what Player plays and where.
	Target playback.Target
	// Thresholds decide when the user is asleep.
	Thresholds sleep.Thresholds
	// Message is the notification text.
	Message string
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Report describes the outcome of one cycle.
type Report struct {
	// State is the classification of the cycle.
	State sleep.State
	// Detections is the size of the pruned detection set.
	Detections int
	// DetectedAt is the latest motion instant, zero for StateNoMotion.
	DetectedAt time.Time
}

// Controller runs detection cycles. Cycles must not overlap.
type Controller struct {
	deps Dependencies
	gate *override.Gate
}

// NewController creates a controller over deps.
func NewController(deps Dependencies) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Controller{
		deps: deps,
		gate: override.NewGate(deps.Store),
	}
}

// RunCycle executes one detection cycle.
//
//nolint:cyclop // The cycle is a linear sequence of steps with early exits.
func (c *Controller) RunCycle(ctx context.Context) (*Report, error) {
	now := c.deps.Now()

	at, ok, err := c.deps.Source.LatestMotion(ctx, c.deps.DeviceID)
	if err != nil {
		if errors.Is(err, sensor.ErrDeviceNotFound) {
			return nil, fmt.Errorf("device %q: %w", c.deps.DeviceID, err)
		}

		return nil, unavailable("fetch motion", err)
	}

	if !ok {
		logger.Info(ctx, "No motion detected")

		return &Report{State: sleep.StateNoMotion}, nil
	}

	set, err := c.deps.Store.Detections(ctx)
	if err != nil {
		return nil, unavailable("load detections", err)
	}

	set, added := sleep.RecordIfNew(set, at)
	if added {
		logger.Infof(ctx, "Motion detected at %s", sleep.FormatInstant(at))
	}

	pruned := sleep.Prune(set, now, c.deps.Thresholds.Window)
	if len(pruned) > 0 {
		logger.Infof(ctx, "Detected at count past %s: %d", c.deps.Thresholds.Window, len(pruned))
	}

	report := &Report{
		Detections: len(pruned),
		DetectedAt: sleep.Normalize(at),
	}

	verdict := sleep.Evaluate(pruned, c.deps.Thresholds.Count)
	if verdict == sleep.VerdictBelow {
		if err = c.deps.Store.SaveDetections(ctx, pruned); err != nil {
			return nil, unavailable("save detections", err)
		}

		report.State = sleep.StateIdle

		return report, nil
	}

	active, err := c.gate.IsActive(ctx, now)
	if err != nil {
		return nil, unavailable("check override", err)
	}

	report.State = sleep.Classify(verdict, active)
	if report.State == sleep.StateSuppressed {
		logger.InfoKV(ctx, "Sleep detected during override, staying quiet", "detections", len(pruned))

		return report, nil
	}

	if err = c.fire(ctx); err != nil {
		return nil, err
	}

	return report, nil
}

// fire resets the detection set and dispatches the effects in order.
// The first failure aborts the remaining steps.
func (c *Controller) fire(ctx context.Context) error {
	logger.Info(ctx, "Sleep detected")

	if err := c.deps.Store.ClearDetections(ctx); err != nil {
		return unavailable("clear detections", err)
	}

	if err := c.deps.Notifier.Notify(ctx, c.deps.Message); err != nil {
		return unavailable("notify", err)
	}

	if err := playback.Play(ctx, c.deps.Player, c.deps.Target); err != nil {
		return unavailable("play", err)
	}

	logger.InfoKV(ctx, "Alarm started", "host", c.deps.Target.Host, "content_url", c.deps.Target.ContentURL)

	return nil
}

func unavailable(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCollaboratorUnavailable, step, err)
}
