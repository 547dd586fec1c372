package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, window time.Duration, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewWithClient(client, window, max)
	t.Cleanup(func() { _ = limiter.Close() })
	return limiter, mr
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d unexpectedly limited", i)
		}
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Error("expected fourth request to be limited")
	}
}

func TestLimitIsPerClient(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute, 1)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("first client first request limited")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("second client should have its own window")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); ok {
		t.Error("first client second request should be limited")
	}
}

func TestWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, time.Minute, 1)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatal("first request limited")
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); ok {
		t.Fatal("second request should be limited")
	}

	// Jump past the window; the counter key expires and a new bucket starts.
	mr.FastForward(2 * time.Minute)

	if ok, err := limiter.Allow(ctx, "10.0.0.1"); err != nil || !ok {
		t.Errorf("expected fresh window after expiry, ok=%v err=%v", ok, err)
	}
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var limiter *Limiter
	ok, err := limiter.Allow(context.Background(), "10.0.0.1")
	if err != nil || !ok {
		t.Errorf("nil limiter must allow, ok=%v err=%v", ok, err)
	}
}
