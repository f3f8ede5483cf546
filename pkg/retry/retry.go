// Package retry implements a bounded exponential-backoff policy for calls
// against the external model provider.
package retry

import (
	"context"
	"time"
)

// Policy bounds retry behavior. It is built from configuration once and
// passed to call sites, rather than each call site hand-rolling sleeps.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultPolicy matches the config defaults: 3 attempts, 500ms doubling up
// to 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = 500 * time.Millisecond
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2.0
	}
	return p
}

// Do runs op up to MaxAttempts times, backing off between attempts. Only
// errors for which retryable returns true are retried; any other error is
// returned immediately. The last error is returned after exhaustion.
func Do(ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) error) error {
	p = p.normalized()

	var lastErr error
	interval := p.InitialInterval

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		interval = time.Duration(float64(interval) * p.Multiplier)
		if interval > p.MaxInterval {
			interval = p.MaxInterval
		}
	}

	return lastErr
}
