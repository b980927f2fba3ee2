package pipeline

import (
	"firestige.xyz/wirefp/internal/engine"
	"firestige.xyz/wirefp/internal/sink"
)

// Builder provides a fluent interface for building pipelines.
// This is an alternative to using Config directly.
type Builder struct {
	config Config
}

// NewBuilder creates a new pipeline builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSource sets the packet source.
func (b *Builder) WithSource(s Source) *Builder {
	b.config.Source = s
	return b
}

// WithEngine sets the bound engine.
func (b *Builder) WithEngine(api *engine.API) *Builder {
	b.config.API = api
	return b
}

// WithSink sets the record sink.
func (b *Builder) WithSink(s sink.Sink) *Builder {
	b.config.Sink = s
	return b
}

// WithAnalysisOptions sets the options passed to engine init.
func (b *Builder) WithAnalysisOptions(opts map[string]any) *Builder {
	b.config.AnalysisOptions = opts
	return b
}

// WithWorkers sets the worker pool size.
func (b *Builder) WithWorkers(n int) *Builder {
	b.config.Workers = n
	return b
}

// WithReadLimit stops the pipeline after n packets.
func (b *Builder) WithReadLimit(n int) *Builder {
	b.config.ReadLimit = n
	return b
}

// WithMetadata adds protocol metadata to records.
func (b *Builder) WithMetadata(on bool) *Builder {
	b.config.Metadata = on
	return b
}

// WithSummary writes accessor summaries instead of full records.
func (b *Builder) WithSummary(on bool) *Builder {
	b.config.Summary = on
	return b
}

// Build creates the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	return New(b.config)
}
