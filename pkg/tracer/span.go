package tracer

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wirespan/wirespan/pkg/interfaces"
)

// B3-style propagation headers emitted by the LocalTracer.
const (
	HeaderTraceID      = "X-B3-TraceId"
	HeaderSpanID       = "X-B3-SpanId"
	HeaderParentSpanID = "X-B3-ParentSpanId"
	HeaderSampled      = "X-B3-Sampled"
)

// localSpan is the Span implementation backing LocalTracer. Each instance is
// owned by the call that created it; only End touches shared state.
type localSpan struct {
	tracer *LocalTracer

	traceID      string
	spanID       string
	parentSpanID string
	name         string
	purpose      interfaces.SpanPurpose
	sampled      bool
	start        time.Time

	mu    sync.Mutex
	ended bool
	end   time.Time
}

func (s *localSpan) TraceID() string { return s.traceID }

func (s *localSpan) SpanID() string { return s.spanID }

func (s *localSpan) ParentSpanID() string { return s.parentSpanID }

func (s *localSpan) Name() string { return s.name }

func (s *localSpan) Purpose() interfaces.SpanPurpose { return s.purpose }

func (s *localSpan) Sampled() bool { return s.sampled }

func (s *localSpan) StartTime() time.Time { return s.start }

// EndTime returns the zero time while the span is still open.
func (s *localSpan) EndTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.end
}

// End terminates the span and hands it to the tracer's recorders. A second
// End is a no-op apart from a warning; the span is recorded exactly once.
func (s *localSpan) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		s.tracer.logger.Warn(context.Background(), "span ended more than once", map[string]interface{}{
			"trace_id": s.traceID,
			"span_id":  s.spanID,
		})
		return
	}
	s.ended = true
	s.end = time.Now()
	s.mu.Unlock()

	s.tracer.record(s)
}

// newTraceID returns a 128-bit lower-hex trace id.
func newTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// newSpanID returns a 64-bit lower-hex span id.
func newSpanID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
