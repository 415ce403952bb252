package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/sleep-watch/internal/domain/sleep"
)

const (
	// DetectedAtsKey holds the JSON array of detected motion instants.
	DetectedAtsKey = "detected_ats"
	// AllowSleepUntilKey holds the override expiry instant.
	AllowSleepUntilKey = "allow_sleep_until"
)

// Repository reads and writes the two typed keys over a KV.
type Repository struct {
	kv KV
}

// NewRepository wraps kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Detections loads the detected set; a missing key is an empty set.
func (r *Repository) Detections(ctx context.Context) (sleep.DetectedSet, error) {
	raw, err := r.kv.Get(ctx, DetectedAtsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return sleep.DetectedSet{}, nil
		}

		return nil, fmt.Errorf("load detections: %w", err)
	}

	var encoded []string
	if err = json.Unmarshal([]byte(raw), &encoded); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}

	set := make(sleep.DetectedSet, 0, len(encoded))
	for _, s := range encoded {
		at, err := sleep.ParseInstant(s)
		if err != nil {
			return nil, fmt.Errorf("decode detections: %w", err)
		}

		set = append(set, at)
	}

	return set, nil
}

// SaveDetections replaces the stored set.
func (r *Repository) SaveDetections(ctx context.Context, set sleep.DetectedSet) error {
	data, err := json.Marshal(set.Strings())
	if err != nil {
		return fmt.Errorf("encode detections: %w", err)
	}

	if err = r.kv.Set(ctx, DetectedAtsKey, string(data)); err != nil {
		return fmt.Errorf("save detections: %w", err)
	}

	return nil
}

// ClearDetections removes the stored set.
func (r *Repository) ClearDetections(ctx context.Context) error {
	if err := r.kv.Delete(ctx, DetectedAtsKey); err != nil {
		return fmt.Errorf("clear detections: %w", err)
	}

	return nil
}

// Override returns the stored expiry and whether one is present.
func (r *Repository) Override(ctx context.Context) (time.Time, bool, error) {
	raw, err := r.kv.Get(ctx, AllowSleepUntilKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, false, nil
		}

		return time.Time{}, false, fmt.Errorf("load override: %w", err)
	}

	expiry, err := sleep.ParseInstant(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("decode override: %w", err)
	}

	return expiry, true, nil
}

// SaveOverride overwrites the stored expiry.
func (r *Repository) SaveOverride(ctx context.Context, expiry time.Time) error {
	if err := r.kv.Set(ctx, AllowSleepUntilKey, sleep.FormatInstant(expiry)); err != nil {
		return fmt.Errorf("save override: %w", err)
	}

	return nil
}

// ClearOverride removes the stored expiry.
func (r *Repository) ClearOverride(ctx context.Context) error {
	if err := r.kv.Delete(ctx, AllowSleepUntilKey); err != nil {
		return fmt.Errorf("clear override: %w", err)
	}

	return nil
}
