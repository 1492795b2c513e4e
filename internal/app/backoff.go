package app

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 30 * time.Second
)

// Backoff implements exponential backoff with jitter. It is not safe for
// concurrent use.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

// NewBackoff creates a new backoff with the given initial and max durations.
// Non-positive values fall back to the defaults.
func NewBackoff(initial, max time.Duration) *Backoff {
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if max < initial {
		max = DefaultBackoffMax
		if max < initial {
			max = initial
		}
	}
	return &Backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Next returns the jittered delay for this attempt and doubles the base
// for the next one.
func (b *Backoff) Next() time.Duration {
	// Add jitter: ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	d := time.Duration(float64(b.current) + jitter)

	// Increase for next time
	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Wait sleeps for Next() or until ctx ends.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset resets the backoff to the initial duration.
func (b *Backoff) Reset() {
	b.current = b.initial
}

// Current returns the current backoff duration.
func (b *Backoff) Current() time.Duration {
	return b.current
}
