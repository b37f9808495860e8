package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps backoff out of the test clock.
func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		Jitter:        time.Millisecond,
	}
}

func TestRetrier_Do(t *testing.T) {
	permanent := errors.New("permanent failure")

	tests := []struct {
		name         string
		maxRetries   int
		failuresLeft int
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "first attempt succeeds",
			maxRetries:   2,
			failuresLeft: 0,
			wantAttempts: 1,
		},
		{
			name:         "succeeds after one failure",
			maxRetries:   2,
			failuresLeft: 1,
			wantAttempts: 2,
		},
		{
			name:         "last allowed attempt succeeds",
			maxRetries:   2,
			failuresLeft: 2,
			wantAttempts: 3,
		},
		{
			name:         "exhausted returns the last error",
			maxRetries:   2,
			failuresLeft: 5,
			wantErr:      permanent,
			wantAttempts: 3,
		},
		{
			name:         "zero retries means a single attempt",
			maxRetries:   0,
			failuresLeft: 1,
			wantErr:      permanent,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := NewRetrier(fastConfig(tt.maxRetries)).Do(context.Background(), func() error {
				attempts++
				if attempts <= tt.failuresLeft {
					return permanent
				}
				return nil
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestRetrier_ContextCanceledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := NewRetrier(fastConfig(3)).Do(ctx, func() error {
		attempts++
		cancel()
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts, "cancellation stops the backoff wait, not just the next attempt")
}

func TestNewDefaultConfig_InteractiveBounds(t *testing.T) {
	cfg := NewDefaultConfig()

	// Tuned for calls made on behalf of a live connection: two retries with a
	// short capped backoff keeps the total added wait under a second.
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 2*time.Second, cfg.MaxDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Jitter)
	assert.Equal(t, 2.0, cfg.BackoffFactor)
}

func TestRetrier_DelayCappedByMaxDelay(t *testing.T) {
	cfg := &Config{
		MaxRetries:    3,
		BackoffFactor: 10.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		Jitter:        0,
	}

	start := time.Now()
	err := NewRetrier(cfg).Do(context.Background(), func() error {
		return errors.New("transient")
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// Uncapped backoff would wait 1+10+100ms between the four attempts; the
	// cap bounds each wait to 10ms.
	assert.Less(t, elapsed, 100*time.Millisecond)
}
