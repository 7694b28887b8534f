package interfaces

import "net/http"

// Transport executes one outbound HTTP request synchronously and returns
// the response or a transport error. It is the single capability the traced
// decorator wraps, and the one it exposes, so decorated transports compose
// into any pipeline by substitution.
type Transport interface {
	Execute(req *http.Request) (*http.Response, error)
}

// TransportFunc is an adapter to allow the use of ordinary functions as
// Transports.
type TransportFunc func(req *http.Request) (*http.Response, error)

// Execute implements the Transport interface.
func (f TransportFunc) Execute(req *http.Request) (*http.Response, error) {
	return f(req)
}
