package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 5 * time.Minute},
		{3, 30 * time.Minute},
		{4, 2 * time.Hour},
		{5, 24 * time.Hour},
		// Out of range values clamp to the schedule bounds
		{0, 0},
		{-1, 0},
		{6, 24 * time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RetryDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestMaxAttemptsMatchesSchedule(t *testing.T) {
	assert.Equal(t, MaxAttempts, len(retrySchedule))
}
