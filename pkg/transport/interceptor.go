package transport

import (
	"context"
	"net/http"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
	"github.com/wirespan/wirespan/pkg/naming"
	"github.com/wirespan/wirespan/pkg/propagation"
)

// spanToCloseKey carries the span opened by BeforeRequest until
// AfterResponse ends it.
type spanToCloseKey struct{}

// Interceptor is the integration point for pipelines that expose
// before/after hooks instead of a decoratable transport. BeforeRequest must
// be installed as the request hook and AfterResponse as the response hook;
// with only one half installed tracing is broken, which is why
// Builder/TracedTransport is preferred whenever the pipeline allows
// decoration (the decorator also surrounds every other hook, while an
// interceptor only surrounds what runs between the two halves).
type Interceptor struct {
	tracer                   interfaces.Tracer
	propagator               *propagation.Propagator
	namer                    naming.SpanNamer
	surroundCallsWithSubspan bool
	logger                   logging.Logger
}

// NewInterceptor creates an Interceptor sharing the traced transport's
// options and defaults.
func NewInterceptor(opts ...Option) *Interceptor {
	o := newOptions(opts...)
	return &Interceptor{
		tracer:                   o.tracer,
		propagator:               propagation.NewPropagator(o.tracer),
		namer:                    o.namer,
		surroundCallsWithSubspan: o.surroundCallsWithSubspan,
		logger:                   o.logger,
	}
}

// BeforeRequest opens the client span (when the subspan option is on) and
// injects the active span's propagation headers. The returned request must
// be the one executed: its context carries the span for AfterResponse to
// end.
func (i *Interceptor) BeforeRequest(req *http.Request) *http.Request {
	ctx := req.Context()

	if i.surroundCallsWithSubspan {
		name := i.namer(req)
		var spanAroundCall interfaces.Span
		if i.tracer.CurrentSpan(ctx) == nil {
			ctx, spanAroundCall = i.tracer.StartSpan(ctx, name, interfaces.SpanPurposeClient)
		} else {
			ctx, spanAroundCall = i.tracer.StartSubspan(ctx, name, interfaces.SpanPurposeClient)
		}
		ctx = context.WithValue(ctx, spanToCloseKey{}, spanAroundCall)
		req = req.WithContext(ctx)
	}

	i.propagator.Inject(req, i.tracer.CurrentSpan(ctx))
	return req
}

// AfterResponse ends the span BeforeRequest opened, if any. Callers must
// invoke it on every outcome of the request, including transport errors,
// or spans leak open.
func (i *Interceptor) AfterResponse(req *http.Request) {
	span, ok := req.Context().Value(spanToCloseKey{}).(interfaces.Span)
	if !ok {
		if i.surroundCallsWithSubspan {
			i.logger.Warn(req.Context(), "AfterResponse called without a span to close, was BeforeRequest installed?", nil)
		}
		return
	}
	span.End()
}
