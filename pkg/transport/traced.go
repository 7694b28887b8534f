// Package transport decorates an HTTP execution pipeline so every outbound
// call propagates the active trace context and, optionally, is surrounded by
// a client span whose duration matches the call's wire time.
package transport

import (
	"net/http"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
	"github.com/wirespan/wirespan/pkg/naming"
	"github.com/wirespan/wirespan/pkg/propagation"
	"github.com/wirespan/wirespan/pkg/tracer"
)

// options is the shared configuration for the traced integration points.
type options struct {
	tracer                   interfaces.Tracer
	namer                    naming.SpanNamer
	surroundCallsWithSubspan bool
	logger                   logging.Logger
}

// Option configures a traced transport or interceptor.
type Option func(*options)

// WithTracer sets the tracer capability. Defaults to tracer.Default().
func WithTracer(t interfaces.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithSpanNamer overrides the policy that names the span around each call.
func WithSpanNamer(namer naming.SpanNamer) Option {
	return func(o *options) {
		o.namer = namer
	}
}

// WithSurroundCallsWithSubspan controls whether each call is surrounded by a
// client span. When off, the active span (if any) is still propagated on the
// request headers; when no span is active either, the call passes through
// untouched. Defaults to on.
func WithSurroundCallsWithSubspan(enabled bool) Option {
	return func(o *options) {
		o.surroundCallsWithSubspan = enabled
	}
}

// WithLogger sets the logger used for diagnostics outside the request path.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts ...Option) *options {
	o := &options{
		namer:                    naming.SpanName,
		surroundCallsWithSubspan: true,
		logger:                   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = tracer.Default()
	}
	return o
}

// TracedTransport wraps an inner Transport so that every call carries the
// caller's trace identifiers as headers and is optionally surrounded by a
// CLIENT span. It implements both the Transport capability and
// http.RoundTripper, so it composes into any pipeline by substitution.
//
// One instance serves unbounded concurrent calls; each invocation owns its
// own span, and the subspan option is frozen at construction.
type TracedTransport struct {
	inner                    interfaces.Transport
	tracer                   interfaces.Tracer
	propagator               *propagation.Propagator
	namer                    naming.SpanNamer
	surroundCallsWithSubspan bool
}

// NewTracedTransport decorates inner. A nil inner delegates to
// http.DefaultTransport.
func NewTracedTransport(inner interfaces.Transport, opts ...Option) *TracedTransport {
	o := newOptions(opts...)
	if inner == nil {
		inner = NewRoundTripperTransport(nil)
	}
	return &TracedTransport{
		inner:                    inner,
		tracer:                   o.tracer,
		propagator:               propagation.NewPropagator(o.tracer),
		namer:                    o.namer,
		surroundCallsWithSubspan: o.surroundCallsWithSubspan,
	}
}

// SurroundCallsWithSubspan reports the subspan option this transport was
// built with.
func (t *TracedTransport) SurroundCallsWithSubspan() bool {
	return t.surroundCallsWithSubspan
}

// Execute runs one traced call: start a span if the subspan option is on
// (a root span when no span is active, else a child), inject the active
// span's propagation headers, delegate to the inner transport, and end the
// span on every exit path. The inner transport's response and error pass
// through unchanged.
func (t *TracedTransport) Execute(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if t.surroundCallsWithSubspan {
		name := t.namer(req)
		var spanAroundCall interfaces.Span
		if t.tracer.CurrentSpan(ctx) == nil {
			// No trace in progress: the client span starts a new one.
			ctx, spanAroundCall = t.tracer.StartSpan(ctx, name, interfaces.SpanPurposeClient)
		} else {
			ctx, spanAroundCall = t.tracer.StartSubspan(ctx, name, interfaces.SpanPurposeClient)
		}
		// End carries the root-vs-child distinction: ending a root span
		// finalizes the whole trace, ending a child only the subspan. The
		// defer runs on return, error and panic alike, so the span always
		// encloses exactly the transport call.
		defer spanAroundCall.End()

		req = req.WithContext(ctx)
	}

	t.propagator.Inject(req, t.tracer.CurrentSpan(ctx))

	return t.inner.Execute(req)
}

// RoundTrip implements http.RoundTripper.
func (t *TracedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.Execute(req)
}

var (
	_ interfaces.Transport = (*TracedTransport)(nil)
	_ http.RoundTripper    = (*TracedTransport)(nil)
)
