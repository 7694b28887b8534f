package transport

import (
	"context"
	"net/http"

	"github.com/wirespan/wirespan/pkg/interfaces"
	"github.com/wirespan/wirespan/pkg/logging"
	"github.com/wirespan/wirespan/pkg/naming"
)

// Builder produces traced transports and clients. It is the preferred
// integration point when you control how clients are constructed: every
// transport it builds surrounds the request fully, including any other
// instrumentation wired into the pipeline.
//
// Each Build captures the subspan option's value at that moment; changing
// the option afterwards only affects future builds, never transports that
// already exist.
type Builder struct {
	surroundCallsWithSubspan bool
	tracer                   interfaces.Tracer
	namer                    naming.SpanNamer
	logger                   logging.Logger
}

// NewBuilder creates a new Builder with the subspan option turned on.
func NewBuilder() *Builder {
	return &Builder{
		surroundCallsWithSubspan: true,
		namer:                    naming.SpanName,
		logger:                   logging.NoOp(),
	}
}

// SurroundCallsWithSubspan returns the current value of the subspan option.
func (b *Builder) SurroundCallsWithSubspan() bool {
	return b.surroundCallsWithSubspan
}

// SetSurroundCallsWithSubspan sets the subspan option for future builds.
// Transports already built keep the value they were built with.
func (b *Builder) SetSurroundCallsWithSubspan(enabled bool) *Builder {
	b.surroundCallsWithSubspan = enabled
	return b
}

// SetTracer sets the tracer used by future builds. Defaults to
// tracer.Default().
func (b *Builder) SetTracer(t interfaces.Tracer) *Builder {
	b.tracer = t
	return b
}

// SetSpanNamer sets the span-naming policy used by future builds.
func (b *Builder) SetSpanNamer(namer naming.SpanNamer) *Builder {
	b.namer = namer
	return b
}

// SetLogger sets the logger used for build-time diagnostics.
func (b *Builder) SetLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

// Build decorates inner with tracing, freezing the builder's current
// settings into the returned transport.
func (b *Builder) Build(inner interfaces.Transport) *TracedTransport {
	t := NewTracedTransport(inner, b.buildOptions()...)
	b.logger.Debug(context.Background(), "built traced transport", map[string]interface{}{
		"surround_calls_with_subspan": t.SurroundCallsWithSubspan(),
	})
	return t
}

// BuildClient returns a copy of client whose transport is decorated with
// tracing. The given client is not modified; a nil client decorates
// http.DefaultClient's configuration.
func (b *Builder) BuildClient(client *http.Client) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	traced := *client
	traced.Transport = NewRoundTripper(client.Transport, b.buildOptions()...)
	return &traced
}

func (b *Builder) buildOptions() []Option {
	opts := []Option{
		WithSurroundCallsWithSubspan(b.surroundCallsWithSubspan),
		WithSpanNamer(b.namer),
		WithLogger(b.logger),
	}
	if b.tracer != nil {
		opts = append(opts, WithTracer(b.tracer))
	}
	return opts
}
