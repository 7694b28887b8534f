package tracer

import (
	"context"
	"sync"
	"time"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"go.opentelemetry.io/otel"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this library to OpenTelemetry.
const instrumentationName = "github.com/wirespan/wirespan"

// OTelTracer adapts an OpenTelemetry tracer to the Tracer capability.
// Propagation headers follow the configured TextMapPropagator, W3C
// traceparent/tracestate by default.
type OTelTracer struct {
	tracer     trace.Tracer
	propagator otelpropagation.TextMapPropagator
}

// OTelOption configures an OTelTracer.
type OTelOption func(*OTelTracer)

// WithTracer sets the OpenTelemetry tracer to adapt. Defaults to the global
// provider's tracer for this library.
func WithTracer(tracer trace.Tracer) OTelOption {
	return func(t *OTelTracer) {
		t.tracer = tracer
	}
}

// WithPropagator sets the propagator that defines the header contract.
func WithPropagator(propagator otelpropagation.TextMapPropagator) OTelOption {
	return func(t *OTelTracer) {
		t.propagator = propagator
	}
}

// NewOTelTracer creates a new OpenTelemetry-backed tracer.
func NewOTelTracer(opts ...OTelOption) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(instrumentationName)
	}
	if t.propagator == nil {
		t.propagator = otelpropagation.TraceContext{}
	}
	return t
}

// CurrentSpan returns the span active on ctx, or nil if there is none.
// Spans created outside this tracer are reported with whatever the
// OpenTelemetry API exposes: ids and sampling, but no name, parent or start
// time.
func (t *OTelTracer) CurrentSpan(ctx context.Context) interfaces.Span {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return &otelSpan{ctx: ctx, span: span, purpose: interfaces.SpanPurposeUnknown}
}

// StartSpan starts a root span, beginning a new trace even if ctx already
// carries one.
func (t *OTelTracer) StartSpan(ctx context.Context, name string, purpose interfaces.SpanPurpose) (context.Context, interfaces.Span) {
	return t.start(ctx, name, purpose, "", trace.WithNewRoot())
}

// StartSubspan starts a child of the span active on ctx.
func (t *OTelTracer) StartSubspan(ctx context.Context, name string, purpose interfaces.SpanPurpose) (context.Context, interfaces.Span) {
	parentID := ""
	if parent := trace.SpanFromContext(ctx); parent.SpanContext().IsValid() {
		parentID = parent.SpanContext().SpanID().String()
	}
	return t.start(ctx, name, purpose, parentID)
}

func (t *OTelTracer) start(ctx context.Context, name string, purpose interfaces.SpanPurpose, parentID string, opts ...trace.SpanStartOption) (context.Context, interfaces.Span) {
	startTime := time.Now()
	opts = append(opts, trace.WithSpanKind(spanKind(purpose)), trace.WithTimestamp(startTime))
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, &otelSpan{
		ctx:          ctx,
		span:         span,
		name:         name,
		purpose:      purpose,
		parentSpanID: parentID,
		start:        startTime,
	}
}

// PropagationHeaders returns the propagator's header set for span.
func (t *OTelTracer) PropagationHeaders(span interfaces.Span) map[string]string {
	otelSpan, ok := span.(*otelSpan)
	if !ok || otelSpan == nil {
		return nil
	}
	carrier := otelpropagation.MapCarrier{}
	t.propagator.Inject(otelSpan.ctx, carrier)
	return carrier
}

func spanKind(purpose interfaces.SpanPurpose) trace.SpanKind {
	switch purpose {
	case interfaces.SpanPurposeClient:
		return trace.SpanKindClient
	case interfaces.SpanPurposeServer:
		return trace.SpanKindServer
	default:
		return trace.SpanKindInternal
	}
}

var _ interfaces.Tracer = (*OTelTracer)(nil)

// otelSpan wraps an OpenTelemetry span behind the Span capability.
type otelSpan struct {
	ctx          context.Context
	span         trace.Span
	name         string
	purpose      interfaces.SpanPurpose
	parentSpanID string
	start        time.Time

	mu    sync.Mutex
	ended bool
	end   time.Time
}

func (s *otelSpan) TraceID() string { return s.span.SpanContext().TraceID().String() }

func (s *otelSpan) SpanID() string { return s.span.SpanContext().SpanID().String() }

func (s *otelSpan) ParentSpanID() string { return s.parentSpanID }

func (s *otelSpan) Name() string { return s.name }

func (s *otelSpan) Purpose() interfaces.SpanPurpose { return s.purpose }

func (s *otelSpan) Sampled() bool { return s.span.SpanContext().IsSampled() }

func (s *otelSpan) StartTime() time.Time { return s.start }

func (s *otelSpan) EndTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.end
}

func (s *otelSpan) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.end = time.Now()
	endTime := s.end
	s.mu.Unlock()

	s.span.End(trace.WithTimestamp(endTime))
}
