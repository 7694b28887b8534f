package transport

import (
	"errors"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
	"github.com/wirespan/wirespan/pkg/retry"
)

var errBodyNotReplayable = errors.New("request body cannot be replayed for retry")

// RetryTransport retries transport errors under a retry.Policy. Compose it
// inside a TracedTransport so the client span encloses every attempt,
// backoff waits included.
//
// Requests with a body are only retried when GetBody is set (true for
// requests built by http.NewRequest from replayable readers); otherwise a
// failed attempt would have consumed the body.
type RetryTransport struct {
	inner  interfaces.Transport
	policy *retry.Policy
	logger logging.Logger
}

// NewRetryTransport decorates inner with retries. A nil policy uses
// retry.NewPolicy's defaults, a nil inner delegates to
// http.DefaultTransport.
func NewRetryTransport(inner interfaces.Transport, policy *retry.Policy, opts ...Option) *RetryTransport {
	o := newOptions(opts...)
	if inner == nil {
		inner = NewRoundTripperTransport(nil)
	}
	if policy == nil {
		policy = retry.NewPolicy()
	}
	return &RetryTransport{
		inner:  inner,
		policy: policy,
		logger: o.logger,
	}
}

// Execute implements the Transport interface. The request's context bounds
// the whole retry loop: cancellation stops further attempts.
func (t *RetryTransport) Execute(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	attempt := 0

	operation := func() error {
		attempt++
		if attempt > 1 {
			if req.Body != nil && req.GetBody == nil {
				return backoff.Permanent(errBodyNotReplayable)
			}
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				req.Body = body
			}
		}

		var err error
		resp, err = t.inner.Execute(req)
		if err != nil {
			t.logger.Debug(req.Context(), "transport attempt failed", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(t.policy.Backoff(), req.Context())); err != nil {
		return nil, err
	}
	return resp, nil
}

var _ interfaces.Transport = (*RetryTransport)(nil)
