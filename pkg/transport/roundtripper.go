package transport

import (
	"net/http"

	"github.com/wirespan/wirespan/pkg/interfaces"
)

// RoundTripperFunc is an adapter to allow the use of ordinary functions as
// RoundTrippers. If f is a function with the appropriate signature,
// RoundTripperFunc(f) is a RoundTripper that calls f.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip implements the RoundTripper interface.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RoundTripperTransport adapts an http.RoundTripper to the Transport
// capability so stdlib pipelines can sit under the traced decorator.
type RoundTripperTransport struct {
	rt http.RoundTripper
}

// NewRoundTripperTransport wraps rt, or http.DefaultTransport when rt is
// nil.
func NewRoundTripperTransport(rt http.RoundTripper) *RoundTripperTransport {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &RoundTripperTransport{rt: rt}
}

// Execute implements the Transport interface.
func (t *RoundTripperTransport) Execute(req *http.Request) (*http.Response, error) {
	return t.rt.RoundTrip(req)
}

// NewRoundTripper returns an http.RoundTripper that traces every request
// before delegating to inner (http.DefaultTransport when inner is nil).
// Drop it into http.Client.Transport, at any single point of a transport
// chain, exactly once.
func NewRoundTripper(inner http.RoundTripper, opts ...Option) http.RoundTripper {
	return NewTracedTransport(NewRoundTripperTransport(inner), opts...)
}

var _ interfaces.Transport = (*RoundTripperTransport)(nil)
