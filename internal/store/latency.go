package store

import (
	"context"
	"math/rand"
	"time"
)

const (
	// DefaultMinLatency and DefaultMaxLatency bound the simulated backend round trip
	DefaultMinLatency = 200 * time.Millisecond
	DefaultMaxLatency = 500 * time.Millisecond
)

// Latency draws the delay applied before a store operation completes.
type Latency func() time.Duration

// Uniform draws delays uniformly from [min, max).
func Uniform(min, max time.Duration) Latency {
	if max <= min {
		return func() time.Duration { return min }
	}
	span := int64(max - min)
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(span))
	}
}

// NoLatency completes every operation immediately.
func NoLatency() time.Duration { return 0 }

func wait(ctx context.Context, latency Latency) error {
	d := latency()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
