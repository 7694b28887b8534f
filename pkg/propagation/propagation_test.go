package propagation

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/tracer"
)

func TestInjectWithNilSpanLeavesRequestUntouched(t *testing.T) {
	tr := tracer.NewLocalTracer()
	req, err := http.NewRequest(http.MethodGet, "https://foo.bar/baz", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	NewPropagator(tr).Inject(req, nil)

	assert.Len(t, req.Header, 1)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestInjectSetsTracingHeaders(t *testing.T) {
	tr := tracer.NewLocalTracer()
	_, span := tr.StartSpan(context.Background(), "test-span", interfaces.SpanPurposeClient)
	req, err := http.NewRequest(http.MethodGet, "https://foo.bar/baz", nil)
	require.NoError(t, err)

	NewPropagator(tr).Inject(req, span)

	assert.Equal(t, span.TraceID(), req.Header.Get(tracer.HeaderTraceID))
	assert.Equal(t, span.SpanID(), req.Header.Get(tracer.HeaderSpanID))
	assert.Equal(t, "1", req.Header.Get(tracer.HeaderSampled))
}

func TestInjectOverwritesExistingHeaders(t *testing.T) {
	tr := tracer.NewLocalTracer()
	_, span := tr.StartSpan(context.Background(), "test-span", interfaces.SpanPurposeClient)
	req, err := http.NewRequest(http.MethodGet, "https://foo.bar/baz", nil)
	require.NoError(t, err)
	req.Header.Set(tracer.HeaderTraceID, "stale-trace-id")
	req.Header.Set(tracer.HeaderSpanID, "stale-span-id")

	NewPropagator(tr).Inject(req, span)

	assert.Equal(t, span.TraceID(), req.Header.Get(tracer.HeaderTraceID))
	assert.Equal(t, span.SpanID(), req.Header.Get(tracer.HeaderSpanID))
}
