// Package tracer provides implementations of the Tracer capability: an
// in-process tracer with pluggable span recorders, and an adapter over an
// OpenTelemetry tracer.
package tracer

import (
	"context"
	"sync"
	"time"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
)

// activeSpanKey carries the currently active local span on a context.
type activeSpanKey struct{}

// LocalTracer implements tracing in process. Trace and span ids are
// uuid-derived, propagation uses B3 headers, and completed spans are handed
// to the configured SpanRecorders.
//
// The active span lives on the context: StartSpan and StartSubspan return a
// derived context carrying the new span, and the caller's original context
// is untouched, so scoping the derived context to a single call restores the
// previous span automatically.
type LocalTracer struct {
	recorders []SpanRecorder
	sampler   func() bool
	logger    logging.Logger
}

// LocalOption configures a LocalTracer.
type LocalOption func(*LocalTracer)

// WithRecorder adds a recorder that receives every completed span.
func WithRecorder(r SpanRecorder) LocalOption {
	return func(t *LocalTracer) {
		t.recorders = append(t.recorders, r)
	}
}

// WithSampler sets the sampling decision made for new root spans. Child
// spans inherit their parent's decision.
func WithSampler(sampler func() bool) LocalOption {
	return func(t *LocalTracer) {
		t.sampler = sampler
	}
}

// WithLogger sets the logger used for tracer diagnostics.
func WithLogger(logger logging.Logger) LocalOption {
	return func(t *LocalTracer) {
		t.logger = logger
	}
}

// NewLocalTracer creates a LocalTracer. By default every span is sampled
// and diagnostics are discarded.
func NewLocalTracer(opts ...LocalOption) *LocalTracer {
	t := &LocalTracer{
		sampler: func() bool { return true },
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var (
	defaultOnce   sync.Once
	defaultTracer *LocalTracer
)

// Default returns the process-wide tracer used when no tracer is configured
// explicitly: a LocalTracer that logs completed spans.
func Default() *LocalTracer {
	defaultOnce.Do(func() {
		defaultTracer = NewLocalTracer(WithRecorder(NewLogRecorder(logging.New())))
	})
	return defaultTracer
}

// CurrentSpan returns the span active on ctx, or nil if there is none.
func (t *LocalTracer) CurrentSpan(ctx context.Context) interfaces.Span {
	if span, ok := ctx.Value(activeSpanKey{}).(*localSpan); ok {
		return span
	}
	return nil
}

// StartSpan starts a root span, beginning a new trace.
func (t *LocalTracer) StartSpan(ctx context.Context, name string, purpose interfaces.SpanPurpose) (context.Context, interfaces.Span) {
	span := &localSpan{
		tracer:  t,
		traceID: newTraceID(),
		spanID:  newSpanID(),
		name:    name,
		purpose: purpose,
		sampled: t.sampler(),
		start:   time.Now(),
	}
	return context.WithValue(ctx, activeSpanKey{}, span), span
}

// StartSubspan starts a child of the span active on ctx. If no span is
// active a new trace is started instead, with a warning, so the call is
// still traced rather than dropped.
func (t *LocalTracer) StartSubspan(ctx context.Context, name string, purpose interfaces.SpanPurpose) (context.Context, interfaces.Span) {
	parent, ok := ctx.Value(activeSpanKey{}).(*localSpan)
	if !ok {
		t.logger.Warn(ctx, "StartSubspan called with no active span, starting a new trace", map[string]interface{}{
			"span_name": name,
		})
		return t.StartSpan(ctx, name, purpose)
	}

	span := &localSpan{
		tracer:       t,
		traceID:      parent.traceID,
		spanID:       newSpanID(),
		parentSpanID: parent.spanID,
		name:         name,
		purpose:      purpose,
		sampled:      parent.sampled,
		start:        time.Now(),
	}
	return context.WithValue(ctx, activeSpanKey{}, span), span
}

// PropagationHeaders returns the B3 header set for span. The parent header
// is present only for child spans.
func (t *LocalTracer) PropagationHeaders(span interfaces.Span) map[string]string {
	if span == nil {
		return nil
	}

	sampled := "0"
	if span.Sampled() {
		sampled = "1"
	}
	headers := map[string]string{
		HeaderTraceID: span.TraceID(),
		HeaderSpanID:  span.SpanID(),
		HeaderSampled: sampled,
	}
	if parentID := span.ParentSpanID(); parentID != "" {
		headers[HeaderParentSpanID] = parentID
	}
	return headers
}

func (t *LocalTracer) record(span *localSpan) {
	for _, r := range t.recorders {
		r.RecordSpan(span)
	}
}

var _ interfaces.Tracer = (*LocalTracer)(nil)
