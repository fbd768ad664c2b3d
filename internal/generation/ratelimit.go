// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"context"
	"sync"
	"time"
)

// waitCushion pads the computed wait so the oldest call is comfortably
// outside the window when the caller re-checks.
const waitCushion = time.Second

// Limiter is a sliding-window call limiter: at most limit calls per
// rolling window. One Limiter is shared by every caller of the generation
// stage, so any of them may be suspended in Acquire regardless of which
// signal triggered the call.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time

	// now and sleep are swapped out by tests to avoid real waiting.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter returns a Limiter allowing limit calls per window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until a call slot is free, then records the call. When
// the window is full it waits for the oldest recorded call to age out and
// re-checks, rather than sleeping a fixed interval. Returns early only on
// context cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()

		kept := l.calls[:0]
		for _, t := range l.calls {
			if now.Sub(t) < l.window {
				kept = append(kept, t)
			}
		}
		l.calls = kept

		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(l.calls[0]) + waitCushion
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
