package fastloop

import (
	"context"
	"time"
)

// FrameScheduler is the cooperative scheduling port between batches. Wait
// blocks until the host grants the next rendering tick, or until ctx is
// cancelled. Batching keeps any single tick's synchronous work bounded; the
// scheduler decides how long the renderer stays off the "main thread"
// between batches.
type FrameScheduler interface {
	Wait(ctx context.Context) error
}

type intervalScheduler struct {
	interval time.Duration
}

// NewIntervalScheduler returns a scheduler that waits a fixed interval
// between batches, approximating an animation-frame cadence. A non-positive
// interval falls back to DefaultFrameInterval.
func NewIntervalScheduler(interval time.Duration) FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &intervalScheduler{interval: interval}
}

func (s *intervalScheduler) Wait(ctx context.Context) error {
	t := time.NewTimer(s.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type immediateScheduler struct{}

// NewImmediateScheduler returns a scheduler that grants every tick without
// delay. Cancellation is still honored between batches.
func NewImmediateScheduler() FrameScheduler {
	return immediateScheduler{}
}

func (immediateScheduler) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
