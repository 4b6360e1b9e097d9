package engine

import (
	"testing"
	"time"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRetrySchedule_RateLimitedBackoffProgression(t *testing.T) {
	s := newRetrySchedule(domain.DefaultRetryConfig())

	var backoffs []time.Duration
	for {
		d, ok := s.next(domain.CategoryRateLimited)
		if !ok {
			break
		}
		backoffs = append(backoffs, d)
	}

	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, backoffs)
	assert.Equal(t, 4, s.attempts())
}

func TestRetrySchedule_BackoffIsCapped(t *testing.T) {
	s := newRetrySchedule(domain.RetryConfig{
		InitialBackoff:         2 * time.Second,
		MaxBackoff:             15 * time.Second,
		Multiplier:             2.0,
		MaxAttemptsRateLimited: 6,
		MaxAttemptsTransient:   6,
	})

	var backoffs []time.Duration
	for {
		d, ok := s.next(domain.CategoryRateLimited)
		if !ok {
			break
		}
		backoffs = append(backoffs, d)
	}

	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second,
		15 * time.Second, 15 * time.Second, 15 * time.Second,
	}, backoffs)
}

func TestRetrySchedule_TransientLimitLowerThanRateLimited(t *testing.T) {
	s := newRetrySchedule(domain.DefaultRetryConfig())

	_, ok := s.next(domain.CategoryTimeout)
	assert.True(t, ok)
	_, ok = s.next(domain.CategoryTimeout)
	assert.True(t, ok)
	_, ok = s.next(domain.CategoryTimeout)
	assert.False(t, ok)
}

func TestRetrySchedule_NonTransientNeverRetries(t *testing.T) {
	s := newRetrySchedule(domain.DefaultRetryConfig())

	for _, category := range []domain.ErrorCategory{
		domain.CategoryParamMissing,
		domain.CategoryToolNotFound,
		domain.CategoryAuth,
		domain.CategoryValidation,
		domain.CategoryUnknown,
	} {
		_, ok := s.next(category)
		assert.False(t, ok, string(category))
	}
	assert.Equal(t, 1, s.attempts())
}
