package analysis

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/core/decoder"
	"firestige.xyz/wirefp/internal/log"
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/pkg/emitter"
)

// ErrorCallback receives the engine's error messages.
type ErrorCallback func(msg string)

// Engine holds configuration and statistics shared by its processors.
type Engine struct {
	cfg     Config
	decoder decoder.Decoder
	logger  log.Logger

	mu      sync.RWMutex
	onError ErrorCallback
	closed  bool

	processors   atomic.Int64
	packets      atomic.Uint64
	decodeErrors atomic.Uint64
	records      [numKinds]atomic.Uint64
}

const numKinds = int(KindWireGuard) + 1

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		cfg:     cfg,
		decoder: decoder.NewStandardDecoder(decoder.Config{}),
		logger:  log.GetLogger().WithField("component", "engine"),
	}
	e.logger.WithFields(map[string]interface{}{
		"metadata":  cfg.OutputMetadata,
		"protocols": cfg.Protocols,
	}).Debug("engine initialized")
	return e
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// RegisterErrorCallback routes error messages to fn instead of the logger.
// A nil fn restores the logger.
func (e *Engine) RegisterErrorCallback(fn ErrorCallback) {
	e.mu.Lock()
	e.onError = fn
	e.mu.Unlock()
}

func (e *Engine) reportf(format string, args ...interface{}) {
	e.mu.RLock()
	fn := e.onError
	e.mu.RUnlock()
	if fn != nil {
		fn(fmt.Sprintf(format, args...))
		return
	}
	e.logger.Debugf(format, args...)
}

// NewProcessor creates a processor bound to the engine.
func (e *Engine) NewProcessor() (*Processor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, core.ErrEngineClosed
	}
	e.processors.Add(1)
	return &Processor{engine: e}, nil
}

// Close shuts the engine down. Processors still open keep working but no
// new ones can be created.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return core.ErrEngineClosed
	}
	e.closed = true
	if n := e.processors.Load(); n > 0 {
		e.logger.Warnf("engine closed with %d processors open", n)
	}
	return nil
}

// Stats is a snapshot of the engine counters.
type Stats struct {
	Packets      uint64
	DecodeErrors uint64
	Records      map[string]uint64
}

// Stats returns the current counters. Kinds that never produced a record
// are omitted.
func (e *Engine) Stats() Stats {
	s := Stats{
		Packets:      e.packets.Load(),
		DecodeErrors: e.decodeErrors.Load(),
		Records:      make(map[string]uint64),
	}
	for k := range e.records {
		if n := e.records[k].Load(); n > 0 {
			s.Records[Kind(k).String()] = n
		}
	}
	return s
}

// WriteStats writes the counters as one JSON object.
func (e *Engine) WriteStats(w io.Writer) error {
	s := e.Stats()
	rec := emitter.NewRecord()
	rec.Uint("packets", s.Packets)
	rec.Uint("decode_errors", s.DecodeErrors)
	o := rec.Object("records")
	for k, n := range s.Records {
		o.Uint(k, n)
	}
	if _, err := fmt.Fprintln(w, rec.JSON()); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

// Processor analyzes packets. It keeps no per-packet state and may be used
// from several goroutines.
type Processor struct {
	engine *Engine
	closed atomic.Bool
}

// Close releases the processor.
func (p *Processor) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.engine.processors.Add(-1)
	}
}

// Analyze analyzes an Ethernet frame. It returns nil unless a protocol
// record was parsed.
func (p *Processor) Analyze(data []byte, ts time.Time) *Context {
	return p.AnalyzeLinkType(data, ts, core.LinkTypeEthernet)
}

// AnalyzeLinkType analyzes a frame of the given link type.
func (p *Processor) AnalyzeLinkType(data []byte, ts time.Time, lt core.LinkType) *Context {
	e := p.engine
	e.packets.Add(1)
	pkt, err := e.decoder.Decode(core.RawPacket{
		Data:       data,
		Timestamp:  ts,
		CaptureLen: uint32(len(data)),
		OrigLen:    uint32(len(data)),
		LinkType:   lt,
	})
	if err != nil {
		e.decodeErrors.Add(1)
		metrics.DecodeErrorsTotal.WithLabelValues(decodeErrorReason(err)).Inc()
		if !errors.Is(err, core.ErrUnsupportedProto) {
			e.reportf("decode %d byte %v frame: %v", len(data), lt, err)
		}
		return nil
	}
	return p.AnalyzePacket(&pkt)
}

// AnalyzePacket analyzes an already decoded packet.
func (p *Processor) AnalyzePacket(pkt *core.DecodedPacket) *Context {
	var (
		rec       Record
		transport string
	)
	start := time.Now()
	switch {
	case pkt.IsTCP():
		transport = "tcp"
		rec = ParseTCP(pkt.Payload, p.engine.cfg.Protocols)
	case pkt.IsUDP():
		transport = "udp"
		rec = ParseUDP(pkt.Payload, p.engine.cfg.Protocols)
	default:
		return nil
	}
	metrics.PacketsTotal.WithLabelValues(transport).Inc()
	metrics.ProcessLatencySeconds.WithLabelValues(transport).Observe(time.Since(start).Seconds())
	if rec.Kind == KindNone {
		return nil
	}
	p.engine.records[rec.Kind].Add(1)
	metrics.RecordsTotal.WithLabelValues(rec.Kind.String()).Inc()
	return newContext(rec, pkt)
}

func decodeErrorReason(err error) string {
	switch {
	case errors.Is(err, core.ErrPacketTooShort):
		return "too_short"
	case errors.Is(err, core.ErrUnsupportedProto):
		return "unsupported_proto"
	case errors.Is(err, core.ErrUnsupportedLinkType):
		return "unsupported_link_type"
	}
	return "malformed"
}
