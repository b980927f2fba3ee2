// Package pipeline runs packets from a source through the engine to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/engine"
	"firestige.xyz/wirefp/internal/log"
	"firestige.xyz/wirefp/internal/sink"
)

// Source yields captured packets until io.EOF.
type Source interface {
	ReadPacket() (core.RawPacket, error)
}

// Pipeline reads packets sequentially and analyzes them on a bounded pool
// of workers. Records reach the sink in completion order.
type Pipeline struct {
	source    Source
	api       *engine.API
	sink      sink.Sink
	options   map[string]any
	workers   int
	readLimit int
	metadata  bool
	summary   bool

	metrics *Metrics
	logger  log.Logger
}

// Config contains pipeline configuration.
type Config struct {
	Source Source
	API    *engine.API // nil binds the builtin engine
	Sink   sink.Sink

	// AnalysisOptions is passed to the engine's init entry point.
	AnalysisOptions map[string]any

	Workers   int // 0 = GOMAXPROCS
	ReadLimit int // 0 = whole source
	Metadata  bool
	Summary   bool // write the accessor summary instead of full records
}

// New creates a new pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pipeline source: %w", core.ErrConfigInvalid)
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("pipeline sink: %w", core.ErrConfigInvalid)
	}
	if cfg.API == nil {
		cfg.API = engine.BindBuiltin()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{
		source:    cfg.Source,
		api:       cfg.API,
		sink:      cfg.Sink,
		options:   cfg.AnalysisOptions,
		workers:   cfg.Workers,
		readLimit: cfg.ReadLimit,
		metadata:  cfg.Metadata,
		summary:   cfg.Summary,
		metrics:   NewMetrics(),
		logger:    log.GetLogger().WithField("component", "pipeline"),
	}, nil
}

// Run processes the source until it is exhausted, the read limit is
// reached or ctx is cancelled. Packets already read are always finished.
// A cancelled ctx is not an error.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	api := p.api
	e, err := api.Init(p.options)
	if err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	defer func() {
		if ferr := api.Finalize(e); ferr != nil && err == nil {
			err = fmt.Errorf("engine finalize: %w", ferr)
		}
	}()
	if api.RegisterErrorCallback != nil {
		api.RegisterErrorCallback(e, func(msg string) {
			p.logger.Warn(msg)
		})
	}

	proc, err := api.ProcessorConstruct(e)
	if err != nil {
		return fmt.Errorf("processor construct: %w", err)
	}
	defer api.ProcessorDestruct(proc)

	p.logger.WithFields(map[string]interface{}{
		"workers":     p.workers,
		"read_limit":  p.readLimit,
		"api_version": api.Version,
	}).Info("pipeline starting")

	workers := pool.New().WithMaxGoroutines(p.workers)
	err = p.captureLoop(ctx, func(raw core.RawPacket) {
		workers.Go(func() { p.processPacket(proc, raw) })
	})
	workers.Wait()

	if ferr := p.flush(); ferr != nil && err == nil {
		err = ferr
	}
	s := p.Stats()
	p.logger.WithFields(map[string]interface{}{
		"received": s.Received,
		"records":  s.Analyzed,
		"written":  s.Written,
	}).Info("pipeline stopped")
	return err
}

// captureLoop reads packets and hands them to dispatch.
func (p *Pipeline) captureLoop(ctx context.Context, dispatch func(core.RawPacket)) error {
	for n := 0; p.readLimit == 0 || n < p.readLimit; n++ {
		if ctx.Err() != nil {
			p.logger.Info("pipeline cancelled")
			return nil
		}
		raw, err := p.source.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read packet: %w", err)
		}
		p.metrics.Received.Add(1)
		dispatch(raw)
	}
	return nil
}

// processPacket analyzes a single packet and writes its record.
func (p *Pipeline) processPacket(proc *analysis.Processor, raw core.RawPacket) {
	api := p.api
	var c *analysis.Context
	switch {
	case api.GetAnalysisContextLinkType != nil:
		c = api.GetAnalysisContextLinkType(proc, raw.Data, raw.Timestamp, raw.LinkType)
	case raw.LinkType == core.LinkTypeEthernet:
		c = api.GetAnalysisContext(proc, raw.Data, raw.Timestamp)
	default:
		if p.metrics.Unsupported.Add(1) == 1 {
			p.logger.Warnf("engine api version %d only analyzes ethernet, skipping %v packets", api.Version, raw.LinkType)
		}
		return
	}
	if c == nil {
		p.metrics.Skipped.Add(1)
		return
	}
	p.metrics.Analyzed.Add(1)

	var err error
	switch ts, text := p.sink.(sink.TextSink); {
	case p.summary && text && ts.IsText():
		err = ts.WriteText(func(w io.Writer) error { return api.WriteSummaryText(w, c) })
	case p.summary:
		err = p.sink.Write(api.Summary(c))
	default:
		err = p.sink.Write(api.Record(c, p.metadata))
	}
	if err != nil {
		p.metrics.WriteErrors.Add(1)
		p.logger.WithError(err).Error("sink write failed")
		return
	}
	p.metrics.Written.Add(1)
}

type flusher interface {
	Flush() error
}

func (p *Pipeline) flush() error {
	if f, ok := p.sink.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush sink: %w", err)
		}
	}
	return nil
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Stats {
	return p.metrics.Snapshot()
}
