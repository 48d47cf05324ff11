package generation

import (
	"context"
	"time"
)

// Pacer decides how long to wait between two sequential batches.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay pauses for a constant duration. A zero delay returns at once.
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay never waits.
var NoDelay Pacer = FixedDelay(0)
