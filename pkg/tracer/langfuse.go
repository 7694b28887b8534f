package tracer

import (
	"context"
	"fmt"

	"github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
)

// LangfuseConfig contains configuration for the Langfuse span recorder.
type LangfuseConfig struct {
	// Enabled determines whether spans are shipped to Langfuse
	Enabled bool `yaml:"enabled"`

	// Environment is the environment name (e.g., "production", "staging")
	Environment string `yaml:"environment"`
}

// LangfuseRecorder ships completed spans to Langfuse as observations. The
// Langfuse client takes its credentials and host from the LANGFUSE_*
// environment variables.
type LangfuseRecorder struct {
	client      *langfuse.Langfuse
	enabled     bool
	environment string
	logger      logging.Logger
}

// NewLangfuseRecorder creates a new Langfuse recorder.
func NewLangfuseRecorder(config LangfuseConfig, logger logging.Logger) *LangfuseRecorder {
	if logger == nil {
		logger = logging.NoOp()
	}
	if !config.Enabled {
		return &LangfuseRecorder{enabled: false, logger: logger}
	}

	return &LangfuseRecorder{
		client:      langfuse.New(context.Background()),
		enabled:     true,
		environment: config.Environment,
		logger:      logger,
	}
}

// RecordSpan implements SpanRecorder. Export failures are logged, never
// surfaced: tracing must not fail the instrumented call.
func (r *LangfuseRecorder) RecordSpan(span interfaces.Span) {
	if !r.enabled {
		return
	}

	startTime := span.StartTime()
	endTime := span.EndTime()

	observation := &model.Span{
		Name:      observationName(span),
		StartTime: &startTime,
		EndTime:   &endTime,
		Metadata: model.M{
			"trace_id":    span.TraceID(),
			"span_id":     span.SpanID(),
			"purpose":     string(span.Purpose()),
			"sampled":     span.Sampled(),
			"environment": r.environment,
		},
	}
	if parentID := span.ParentSpanID(); parentID != "" {
		observation.ParentObservationID = parentID
	}

	var id string
	if _, err := r.client.Span(observation, &id); err != nil {
		r.logger.Error(context.Background(), "failed to record span to Langfuse", map[string]interface{}{
			"error":     err.Error(),
			"span_name": span.Name(),
		})
	}
}

// Flush flushes the Langfuse client.
func (r *LangfuseRecorder) Flush() error {
	if !r.enabled {
		return nil
	}
	r.client.Flush(context.Background())
	return nil
}

var _ SpanRecorder = (*LangfuseRecorder)(nil)

// observationName is kept for parity with Langfuse's naming of ad hoc
// observations when a span has no name.
func observationName(span interfaces.Span) string {
	if span.Name() != "" {
		return span.Name()
	}
	return fmt.Sprintf("span-%s", span.SpanID())
}
