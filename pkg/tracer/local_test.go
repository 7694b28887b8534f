package tracer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wirespan/wirespan/pkg/interfaces"
)

type captureRecorder struct {
	mu    sync.Mutex
	spans []interfaces.Span
}

func (r *captureRecorder) RecordSpan(span interfaces.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, span)
}

func (r *captureRecorder) recorded() []interfaces.Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interfaces.Span(nil), r.spans...)
}

func TestCurrentSpanIsNilOnFreshContext(t *testing.T) {
	tr := NewLocalTracer()

	assert.Nil(t, tr.CurrentSpan(context.Background()))
}

func TestStartSpanCreatesRootSpan(t *testing.T) {
	tr := NewLocalTracer()

	ctx, span := tr.StartSpan(context.Background(), "root-span", interfaces.SpanPurposeClient)

	assert.NotEmpty(t, span.TraceID())
	assert.NotEmpty(t, span.SpanID())
	assert.Empty(t, span.ParentSpanID())
	assert.Equal(t, "root-span", span.Name())
	assert.Equal(t, interfaces.SpanPurposeClient, span.Purpose())
	assert.True(t, span.Sampled())
	assert.False(t, span.StartTime().IsZero())
	assert.True(t, span.EndTime().IsZero())
	assert.Same(t, span, tr.CurrentSpan(ctx))
}

func TestStartSubspanCreatesChildOfCurrentSpan(t *testing.T) {
	tr := NewLocalTracer()
	ctx, parent := tr.StartSpan(context.Background(), "parent", interfaces.SpanPurposeServer)

	childCtx, child := tr.StartSubspan(ctx, "child", interfaces.SpanPurposeClient)

	assert.Equal(t, parent.TraceID(), child.TraceID())
	assert.Equal(t, parent.SpanID(), child.ParentSpanID())
	assert.NotEqual(t, parent.SpanID(), child.SpanID())
	assert.Same(t, child, tr.CurrentSpan(childCtx))
	// the parent context still holds the parent span
	assert.Same(t, parent, tr.CurrentSpan(ctx))
}

func TestStartSubspanWithoutCurrentSpanStartsNewTrace(t *testing.T) {
	tr := NewLocalTracer()

	_, span := tr.StartSubspan(context.Background(), "orphan", interfaces.SpanPurposeClient)

	assert.NotEmpty(t, span.TraceID())
	assert.Empty(t, span.ParentSpanID())
}

func TestEndRecordsSpanExactlyOnce(t *testing.T) {
	rec := &captureRecorder{}
	tr := NewLocalTracer(WithRecorder(rec))
	_, span := tr.StartSpan(context.Background(), "span", interfaces.SpanPurposeClient)

	span.End()
	firstEnd := span.EndTime()
	require.False(t, firstEnd.IsZero())

	span.End()

	assert.Len(t, rec.recorded(), 1)
	assert.Equal(t, firstEnd, span.EndTime())
}

func TestEndSetsEndTimeAfterStartTime(t *testing.T) {
	rec := &captureRecorder{}
	tr := NewLocalTracer(WithRecorder(rec))
	_, span := tr.StartSpan(context.Background(), "span", interfaces.SpanPurposeClient)

	time.Sleep(5 * time.Millisecond)
	span.End()

	require.Len(t, rec.recorded(), 1)
	recorded := rec.recorded()[0]
	assert.True(t, recorded.EndTime().After(recorded.StartTime()))
}

func TestPropagationHeadersForRootSpan(t *testing.T) {
	tr := NewLocalTracer()
	_, span := tr.StartSpan(context.Background(), "root", interfaces.SpanPurposeClient)

	headers := tr.PropagationHeaders(span)

	assert.Equal(t, span.TraceID(), headers[HeaderTraceID])
	assert.Equal(t, span.SpanID(), headers[HeaderSpanID])
	assert.Equal(t, "1", headers[HeaderSampled])
	assert.NotContains(t, headers, HeaderParentSpanID)
}

func TestPropagationHeadersForChildSpan(t *testing.T) {
	tr := NewLocalTracer()
	ctx, parent := tr.StartSpan(context.Background(), "parent", interfaces.SpanPurposeServer)
	_, child := tr.StartSubspan(ctx, "child", interfaces.SpanPurposeClient)

	headers := tr.PropagationHeaders(child)

	assert.Equal(t, parent.TraceID(), headers[HeaderTraceID])
	assert.Equal(t, child.SpanID(), headers[HeaderSpanID])
	assert.Equal(t, parent.SpanID(), headers[HeaderParentSpanID])
}

func TestPropagationHeadersNilSpan(t *testing.T) {
	tr := NewLocalTracer()

	assert.Nil(t, tr.PropagationHeaders(nil))
}

func TestSamplerDecisionInheritedByChildren(t *testing.T) {
	tr := NewLocalTracer(WithSampler(func() bool { return false }))
	ctx, parent := tr.StartSpan(context.Background(), "parent", interfaces.SpanPurposeServer)
	_, child := tr.StartSubspan(ctx, "child", interfaces.SpanPurposeClient)

	assert.False(t, parent.Sampled())
	assert.False(t, child.Sampled())
	assert.Equal(t, "0", tr.PropagationHeaders(child)[HeaderSampled])
}

func TestTraceAndSpanIDFormats(t *testing.T) {
	tr := NewLocalTracer()
	_, span := tr.StartSpan(context.Background(), "span", interfaces.SpanPurposeClient)

	assert.Len(t, span.TraceID(), 32)
	assert.Len(t, span.SpanID(), 16)
}

func TestDefaultReturnsSameTracer(t *testing.T) {
	assert.Same(t, Default(), Default())
}
