// Package propagation writes a span's tracing identifiers onto an outgoing
// HTTP request so the downstream system can join the trace.
package propagation

import (
	"net/http"

	"github.com/wirespan/wirespan/pkg/interfaces"
)

// Propagator injects the tracer-defined propagation header set for a span
// into request headers. The header names and values are entirely the
// tracer's contract; the propagator only applies them.
type Propagator struct {
	tracer interfaces.Tracer
}

// NewPropagator creates a Propagator that sources headers from tracer.
func NewPropagator(tracer interfaces.Tracer) *Propagator {
	return &Propagator{tracer: tracer}
}

// Inject sets every propagation header for span on req, overwriting any
// existing value with the same name. A nil span means there is no tracing
// context to propagate and the request is left untouched. Inject never
// blocks and never fails.
func (p *Propagator) Inject(req *http.Request, span interfaces.Span) {
	if span == nil {
		return
	}
	for name, value := range p.tracer.PropagationHeaders(span) {
		req.Header.Set(name, value)
	}
}
