package pipeline

import (
	"sync/atomic"
)

// Metrics contains per-pipeline counters.
type Metrics struct {
	Received    atomic.Uint64 // packets read from the source
	Analyzed    atomic.Uint64 // packets that produced a context
	Skipped     atomic.Uint64 // packets without a record
	Unsupported atomic.Uint64 // packets of a link type the engine cannot take
	Written     atomic.Uint64
	WriteErrors atomic.Uint64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Received:    m.Received.Load(),
		Analyzed:    m.Analyzed.Load(),
		Skipped:     m.Skipped.Load(),
		Unsupported: m.Unsupported.Load(),
		Written:     m.Written.Load(),
		WriteErrors: m.WriteErrors.Load(),
	}
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Received.Store(0)
	m.Analyzed.Store(0)
	m.Skipped.Store(0)
	m.Unsupported.Store(0)
	m.Written.Store(0)
	m.WriteErrors.Store(0)
}

// Stats represents pipeline statistics.
type Stats struct {
	Received    uint64
	Analyzed    uint64
	Skipped     uint64
	Unsupported uint64
	Written     uint64
	WriteErrors uint64
}
