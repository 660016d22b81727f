package usecase

import (
	"context"
	"time"
)

// Pacer inserts the fixed delay between per-item index calls. It is
// admission control for the downstream service, not a correctness
// mechanism, so tests swap in NopPacer to run with zero delay.
type Pacer interface {
	Pause(ctx context.Context) error
}

// SleepPacer waits a fixed duration, honoring cancellation.
type SleepPacer struct {
	Delay time.Duration
}

// Pause blocks for the configured delay or until ctx is cancelled.
func (p SleepPacer) Pause(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopPacer never waits.
type NopPacer struct{}

// Pause returns immediately.
func (NopPacer) Pause(ctx context.Context) error { return nil }
