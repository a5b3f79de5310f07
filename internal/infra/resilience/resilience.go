// Package resilience guards the calls this service makes to its one
// external collaborator, the Supabase PostgREST API: retry with
// exponential backoff, a circuit breaker shared by the snapshot reads,
// and a bulkhead capping in-flight requests.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/semaphore"
)

// Config holds the retry and concurrency knobs, loaded from env.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

// RetryWithBackoff reruns fn until it succeeds or the attempt budget
// is spent. The wait doubles per attempt with up to 50% jitter added,
// and a cancelled context cuts both the waits and further attempts
// short.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := cfg.InitialBackoff << attempt
		if half := int64(wait / 2); half > 0 {
			wait += time.Duration(rand.Int63n(half))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// NewCircuitBreaker builds the breaker the Supabase client runs its
// reads through. It trips once 5+ requests in the 30s window fail at
// a 60% rate, and probes with 3 requests after 10s open.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

// Bulkhead caps how many requests may be in flight at once, so a slow
// backend degrades forecasts instead of exhausting the process.
type Bulkhead struct {
	sem *semaphore.Weighted
}

// NewBulkhead creates a bulkhead admitting at most maxConcurrency
// holders. Values below 1 are treated as 1.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Bulkhead{sem: semaphore.NewWeighted(int64(maxConcurrency))}
}

// Acquire blocks until a slot frees up or the context is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	return b.sem.Acquire(ctx, 1)
}

// Release returns a slot taken by Acquire.
func (b *Bulkhead) Release() {
	b.sem.Release(1)
}
