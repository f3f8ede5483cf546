package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(error) bool { return true }, func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilExhaustion(t *testing.T) {
	calls := 0
	transient := errors.New("connection reset")

	err := Do(context.Background(), fastPolicy(), func(error) bool { return true }, func(context.Context) error {
		calls++
		return transient
	})

	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	fatal := errors.New("bad request")

	err := Do(context.Background(), fastPolicy(), func(error) bool { return false }, func(context.Context) error {
		calls++
		return fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoRecoversOnLaterAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(), func(error) bool { return true }, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{MaxAttempts: 5, InitialInterval: time.Second, MaxInterval: time.Second, Multiplier: 1}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, p, func(error) bool { return true }, func(context.Context) error {
			calls++
			return errors.New("timeout")
		})
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestNormalizedFillsZeroValues(t *testing.T) {
	p := Policy{}.normalized()

	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.InitialInterval)
	assert.GreaterOrEqual(t, p.MaxInterval, p.InitialInterval)
	assert.GreaterOrEqual(t, p.Multiplier, 1.0)
}
