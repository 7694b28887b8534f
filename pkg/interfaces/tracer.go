package interfaces

import (
	"context"
	"time"
)

// SpanPurpose describes why a span exists. This library only ever creates
// CLIENT spans; the other values exist so tracer implementations can report
// spans created elsewhere.
type SpanPurpose string

const (
	SpanPurposeServer    SpanPurpose = "SERVER"
	SpanPurposeClient    SpanPurpose = "CLIENT"
	SpanPurposeLocalOnly SpanPurpose = "LOCAL_ONLY"
	SpanPurposeUnknown   SpanPurpose = "UNKNOWN"
)

// Tracer represents a tracing system for observability.
//
// The "currently active span" is carried on the context: StartSpan and
// StartSubspan return a derived context with the new span attached, and the
// caller's original context keeps whatever was active before. Callers that
// scope the derived context to one call get push/pop semantics for free.
type Tracer interface {
	// CurrentSpan returns the span active on ctx, or nil if there is none.
	CurrentSpan(ctx context.Context) Span

	// StartSpan starts a root span, beginning a new trace, and returns a
	// context carrying it as the active span.
	StartSpan(ctx context.Context, name string, purpose SpanPurpose) (context.Context, Span)

	// StartSubspan starts a child of the span active on ctx and returns a
	// context carrying the child as the active span.
	StartSubspan(ctx context.Context, name string, purpose SpanPurpose) (context.Context, Span)

	// PropagationHeaders returns the header set that identifies span on the
	// wire (trace id, span id, parent id, sampling decision). The header
	// names are the tracer's contract with the downstream system.
	PropagationHeaders(span Span) map[string]string
}

// Span represents one unit of traced work.
//
// A span with no parent is the root of a new trace; a span with a parent is
// a child within the active trace. End is the single terminating call:
// ending a root span finalizes the whole trace, ending a child finalizes
// only that subspan and leaves the trace active.
type Span interface {
	TraceID() string
	SpanID() string

	// ParentSpanID returns the parent span's id, or "" for root spans.
	ParentSpanID() string

	Name() string
	Purpose() SpanPurpose
	Sampled() bool

	StartTime() time.Time

	// EndTime returns the zero time until the span has been ended.
	EndTime() time.Time

	// End terminates the span. It must be called exactly once, on every
	// exit path of the work the span measures.
	End()
}
