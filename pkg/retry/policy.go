package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy defines the retry policy configuration
type Policy struct {
	InitialInterval    time.Duration
	BackoffCoefficient float64
	MaximumInterval    time.Duration
	MaximumAttempts    int32
}

// Option represents a retry policy option
type Option func(*Policy)

// WithInitialInterval sets the initial interval for retries
func WithInitialInterval(interval time.Duration) Option {
	return func(p *Policy) {
		p.InitialInterval = interval
	}
}

// WithBackoffCoefficient sets the backoff coefficient
func WithBackoffCoefficient(coefficient float64) Option {
	return func(p *Policy) {
		p.BackoffCoefficient = coefficient
	}
}

// WithMaximumInterval sets the maximum interval between retries
func WithMaximumInterval(interval time.Duration) Option {
	return func(p *Policy) {
		p.MaximumInterval = interval
	}
}

// WithMaxAttempts sets the maximum number of attempts, first try included.
// Zero means retry without an attempt bound.
func WithMaxAttempts(attempts int32) Option {
	return func(p *Policy) {
		p.MaximumAttempts = attempts
	}
}

// NewPolicy creates a new retry policy with default values
func NewPolicy(opts ...Option) *Policy {
	policy := &Policy{
		InitialInterval:    time.Second,       // Default 1s
		BackoffCoefficient: 2.0,               // Default exponential backoff
		MaximumInterval:    time.Second * 100, // Default 100s
		MaximumAttempts:    3,                 // Default 3 attempts
	}

	for _, opt := range opts {
		opt(policy)
	}

	return policy
}

// Backoff converts the policy into an executable backoff schedule.
func (p *Policy) Backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.BackoffCoefficient
	b.MaxInterval = p.MaximumInterval
	b.MaxElapsedTime = 0 // attempts are bounded by count, not wall time

	if p.MaximumAttempts > 0 {
		// MaximumAttempts counts the first try; backoff counts retries.
		return backoff.WithMaxRetries(b, uint64(p.MaximumAttempts-1))
	}
	return b
}
