package playback

import (
	"context"
	"errors"
	"fmt"
)

// ErrVolumeOutOfRange is returned for volumes outside 0..1.
var ErrVolumeOutOfRange = errors.New("volume out of range")

// Player drives one cast session.
type Player interface {
	// Connect opens a session with the device at host.
	Connect(ctx context.Context, host string) error
	// SetVolume sets the device volume in 0..1.
	SetVolume(ctx context.Context, level float64) error
	// Load starts playing url with autoplay.
	Load(ctx context.Context, url string) error
	// Close ends the session; playback keeps going on the device.
	Close() error
}

// Target describes what to play and where.
type Target struct {
	// Host is the cast device address.
	Host string
	// Volume is the playback volume in 0..1.
	Volume float64
	// ContentURL is the media URL.
	ContentURL string
}

// Play connects, sets the volume and loads the content, in that order.
func Play(ctx context.Context, p Player, target Target) (err error) {
	if target.Volume < 0 || target.Volume > 1 {
		return fmt.Errorf("%w: %v", ErrVolumeOutOfRange, target.Volume)
	}

	if err = p.Connect(ctx, target.Host); err != nil {
		return fmt.Errorf("connect to %s: %w", target.Host, err)
	}

	defer func() {
		if closeErr := p.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close session: %w", closeErr)
		}
	}()

	if err = p.SetVolume(ctx, target.Volume); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}

	if err = p.Load(ctx, target.ContentURL); err != nil {
		return fmt.Errorf("load %s: %w", target.ContentURL, err)
	}

	return nil
}
