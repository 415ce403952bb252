package notify

import (
	"context"
	"fmt"
)

// Notifier delivers a single human-readable message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Fanout delivers to each notifier in order and stops at the first failure.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, message string) error {
	for i, n := range f {
		if n == nil {
			continue
		}

		if err := n.Notify(ctx, message); err != nil {
			return fmt.Errorf("notifier %d: %w", i, err)
		}
	}

	return nil
}
