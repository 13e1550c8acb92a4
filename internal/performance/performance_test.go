package performance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestWorkerPoolFunctionality tests worker pool basic functionality.
func TestWorkerPoolFunctionality(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()

	var counter int64
	var wg sync.WaitGroup

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		wg.Add(1)
		err := pool.SubmitWait(ctx, func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		})
		if err != nil {
			t.Fatalf("SubmitWait failed: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for tasks to complete")
	}

	pool.Stop()

	if counter != 100 {
		t.Errorf("Expected 100 tasks completed, got %d", counter)
	}

	stats := pool.Stats()
	if stats.TasksDone != 100 || stats.Running {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestWorkerPoolRejectsWhenStopped(t *testing.T) {
	pool := NewWorkerPool(1)
	if pool.Submit(func() {}) {
		t.Error("Submit should fail before Start")
	}
	if err := pool.SubmitWait(context.Background(), func() {}); err == nil {
		t.Error("SubmitWait should fail before Start")
	}
	pool.Start()
	pool.Stop()
	pool.Stop()
}

// TestRateLimiterFunctionality tests rate limiter basic functionality.
func TestRateLimiterFunctionality(t *testing.T) {
	limiter := NewRateLimiter(100, 10)

	allowed := 0
	for i := 0; i < 15; i++ {
		if limiter.Allow() {
			allowed++
		}
	}

	if allowed < 10 {
		t.Errorf("Expected at least 10 allowed in burst, got %d", allowed)
	}

	time.Sleep(100 * time.Millisecond)

	if !limiter.Allow() {
		t.Error("Expected to allow after refill")
	}
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	limiter := PerMinute(1)
	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected Wait to fail once the context expires")
	}
}
