package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock lets tests march time forward without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*FixedWindow, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewFixedWindow(max, window)
	l.now = clock.now
	return l, clock
}

func TestFixedWindowAllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request #%d should be allowed", i)
		}
	}

	ok, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow #4: %v", err)
	}
	if ok {
		t.Error("4th request inside the window should be denied")
	}
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	l, clock := newTestLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Allow(ctx, "1.2.3.4")
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("expected denial at the ceiling")
	}

	clock.advance(time.Hour + time.Second)

	ok, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow after window: %v", err)
	}
	if !ok {
		t.Error("request after the window elapsed should be allowed")
	}
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("first request from first key should be allowed")
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("second request from first key should be denied")
	}
	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Error("first request from a different key should be allowed")
	}
}

func TestFixedWindowBoundaryIsFixedNotSliding(t *testing.T) {
	l, clock := newTestLimiter(2, time.Hour)
	ctx := context.Background()

	// Two requests 59 minutes apart still share the window opened by the
	// first request.
	l.Allow(ctx, "1.2.3.4")
	clock.advance(59 * time.Minute)
	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatal("second request inside the window should be allowed")
	}
	if ok, _ := l.Allow(ctx, "1.2.3.4"); ok {
		t.Fatal("third request inside the window should be denied")
	}

	// Two minutes later the original window has expired; the count resets
	// fully rather than sliding.
	clock.advance(2 * time.Minute)
	if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
		t.Error("request after the fixed boundary should start a new window")
	}
}
