// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsTotal counts packets handed to the engine by transport
	PacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wirefp_packets_total",
			Help: "Total number of packets analyzed",
		},
		[]string{"transport"},
	)

	// DecodeErrorsTotal counts frames the L2-L4 decoder rejected
	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wirefp_decode_errors_total",
			Help: "Total number of frames that could not be decoded",
		},
		[]string{"reason"},
	)

	// RecordsTotal counts emitted protocol records
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wirefp_records_total",
			Help: "Total number of protocol records produced",
		},
		[]string{"protocol"},
	)

	// ParserRejectionsTotal counts payloads a parser was selected for but
	// found invalid
	ParserRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wirefp_parser_rejections_total",
			Help: "Total number of payloads rejected by a protocol parser",
		},
		[]string{"protocol"},
	)

	// ProcessLatencySeconds measures per-packet analysis latency
	ProcessLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wirefp_process_latency_seconds",
			Help:    "Latency of per-packet analysis in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0000001, 2, 20), // 100ns to ~50ms
		},
		[]string{"transport"},
	)

	// SinkErrorsTotal counts records that could not be written
	SinkErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wirefp_sink_errors_total",
			Help: "Total number of output write errors",
		},
		[]string{"format"},
	)
)
