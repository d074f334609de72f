package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiterCooldownWindow(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	limiter := NewLimiter(store, 20*time.Second)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if !limiter.Allow(ctx, 1, t1) {
		t.Fatal("first request must be allowed")
	}
	if limiter.Allow(ctx, 1, t1.Add(19*time.Second)) {
		t.Fatal("request inside cooldown must be rejected")
	}
	if !limiter.Allow(ctx, 1, t1.Add(20*time.Second)) {
		t.Fatal("request at cooldown boundary must be allowed")
	}
}

func TestLimiterRejectionHasNoSideEffects(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	limiter := NewLimiter(store, 20*time.Second)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	limiter.Allow(ctx, 1, t1)
	limiter.Allow(ctx, 1, t1.Add(10*time.Second))

	// The rejected attempt must not have re-stamped lastRequestAt.
	if !limiter.Allow(ctx, 1, t1.Add(20*time.Second)) {
		t.Fatal("rejection moved the cooldown window")
	}
}

func TestLimiterSingleAllowUnderConcurrency(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	limiter := NewLimiter(store, 20*time.Second)
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	const callers = 8
	var (
		start   = make(chan struct{})
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if limiter.Allow(ctx, 1, now) {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := allowed.Load(); got != 1 {
		t.Fatalf("%d parallel requests allowed inside one cooldown window, expected 1", got)
	}
}

func TestLimiterPerUser(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	limiter := NewLimiter(store, 20*time.Second)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if !limiter.Allow(ctx, 1, t1) {
		t.Fatal("user 1 first request must be allowed")
	}
	if !limiter.Allow(ctx, 2, t1) {
		t.Fatal("user 2 must not share user 1's cooldown")
	}
}

func TestLimiterRetry(t *testing.T) {
	store := NewMemoryStore(MemoryOptions{})
	limiter := NewLimiter(store, 20*time.Second)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if wait := limiter.Retry(ctx, 1, t1); wait != 0 {
		t.Fatalf("fresh user retry = %v, expected 0", wait)
	}
	limiter.Allow(ctx, 1, t1)
	if wait := limiter.Retry(ctx, 1, t1.Add(5*time.Second)); wait != 15*time.Second {
		t.Fatalf("retry = %v, expected 15s", wait)
	}
	if wait := limiter.Retry(ctx, 1, t1.Add(time.Minute)); wait != 0 {
		t.Fatalf("retry after window = %v, expected 0", wait)
	}
}
