package tracer

import (
	"context"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
)

// SpanRecorder receives every span completed by a LocalTracer. RecordSpan is
// called exactly once per span, after End, and may run on whatever goroutine
// ended the span, so implementations must be safe for concurrent use.
type SpanRecorder interface {
	RecordSpan(span interfaces.Span)
}

// LogRecorder logs completed spans. Root spans are logged as completed
// traces, child spans as completed subspans.
type LogRecorder struct {
	logger logging.Logger
}

// NewLogRecorder creates a LogRecorder writing to logger.
func NewLogRecorder(logger logging.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// RecordSpan implements SpanRecorder.
func (r *LogRecorder) RecordSpan(span interfaces.Span) {
	fields := map[string]interface{}{
		"trace_id":    span.TraceID(),
		"span_id":     span.SpanID(),
		"span_name":   span.Name(),
		"purpose":     string(span.Purpose()),
		"sampled":     span.Sampled(),
		"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
	}

	if span.ParentSpanID() == "" {
		r.logger.Info(context.Background(), "trace completed", fields)
		return
	}
	fields["parent_span_id"] = span.ParentSpanID()
	r.logger.Info(context.Background(), "subspan completed", fields)
}
