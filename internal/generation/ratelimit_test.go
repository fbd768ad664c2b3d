// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives a Limiter without real waiting: sleep advances the
// clock by the requested duration.
type fakeClock struct {
	current time.Time
	sleeps  []time.Duration
}

func (c *fakeClock) install(l *Limiter) {
	l.now = func() time.Time { return c.current }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		c.sleeps = append(c.sleeps, d)
		c.current = c.current.Add(d)
		return nil
	}
}

func TestAcquireUnderLimit(t *testing.T) {
	l := NewLimiter(5, time.Minute)
	clock := &fakeClock{current: time.Date(2026, 2, 14, 2, 0, 0, 0, time.UTC)}
	clock.install(l)

	for i := 0; i < 5; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("calls under the limit must not wait, got sleeps %v", clock.sleeps)
	}
}

func TestAcquireWaitsForOldestCall(t *testing.T) {
	l := NewLimiter(5, time.Minute)
	clock := &fakeClock{current: time.Date(2026, 2, 14, 2, 0, 0, 0, time.UTC)}
	clock.install(l)

	// Five calls spaced 10s apart fill the window.
	for i := 0; i < 5; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
		clock.current = clock.current.Add(10 * time.Second)
	}

	// The sixth call finds the oldest recorded call 50s old: it must wait
	// the remaining 10s plus the cushion, then succeed on re-check.
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) != 1 {
		t.Fatalf("got %d sleeps, want 1: %v", len(clock.sleeps), clock.sleeps)
	}
	if want := 10*time.Second + waitCushion; clock.sleeps[0] != want {
		t.Errorf("waited %v, want %v", clock.sleeps[0], want)
	}
}

func TestAcquireSlidesWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	clock := &fakeClock{current: time.Date(2026, 2, 14, 2, 0, 0, 0, time.UTC)}
	clock.install(l)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	// After the full window passes, both calls have aged out and no wait
	// is needed.
	clock.current = clock.current.Add(time.Minute + time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("aged-out calls must free slots without waiting, got %v", clock.sleeps)
	}
}

func TestAcquireCancelledWhileWaiting(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled while waiting, got %v", err)
	}
}

func TestNewLimiterDefaults(t *testing.T) {
	l := NewLimiter(0, 0)
	if l.limit != 5 {
		t.Errorf("default limit = %d, want 5", l.limit)
	}
	if l.window != time.Minute {
		t.Errorf("default window = %v, want 1m", l.window)
	}
}
