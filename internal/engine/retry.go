package engine

import (
	"time"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// retrySchedule is the per-node retry sub-state: how many retries have been
// spent and what backoff precedes the next one. A fresh schedule is created
// for every node at the start of every run.
type retrySchedule struct {
	cfg     domain.RetryConfig
	retries int
}

func newRetrySchedule(cfg domain.RetryConfig) *retrySchedule {
	return &retrySchedule{cfg: cfg}
}

// next reports whether the failure category allows another retry and, if so,
// consumes one and returns the backoff to wait before re-entering the call.
func (s *retrySchedule) next(category domain.ErrorCategory) (time.Duration, bool) {
	if !category.Transient() {
		return 0, false
	}
	limit := s.cfg.MaxAttemptsTransient
	if category == domain.CategoryRateLimited {
		limit = s.cfg.MaxAttemptsRateLimited
	}
	if s.retries >= limit {
		return 0, false
	}
	s.retries++
	return s.backoff(s.retries), true
}

func (s *retrySchedule) backoff(retry int) time.Duration {
	d := s.cfg.InitialBackoff
	for i := 1; i < retry; i++ {
		d = time.Duration(float64(d) * s.cfg.Multiplier)
		if d >= s.cfg.MaxBackoff {
			return s.cfg.MaxBackoff
		}
	}
	if d > s.cfg.MaxBackoff {
		d = s.cfg.MaxBackoff
	}
	return d
}

// attempts is the total number of calls made once the current one finishes.
func (s *retrySchedule) attempts() int {
	return s.retries + 1
}
