// Package engine binds the analysis engine through a versioned symbol
// table. Version 1 symbols are required; the version 2 and 3 tiers are
// optional and bound only when all of their symbols resolve.
package engine

import (
	"io"
	"time"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Symbol names.
const (
	// v1
	SymInit                 = "wirefp_init"
	SymFinalize             = "wirefp_finalize"
	SymProcessorConstruct   = "wirefp_packet_processor_construct"
	SymProcessorDestruct    = "wirefp_packet_processor_destruct"
	SymGetAnalysisContext   = "wirefp_packet_processor_get_analysis_context"
	SymGetFingerprintType   = "analysis_context_get_fingerprint_type"
	SymGetFingerprintStatus = "analysis_context_get_fingerprint_status"
	SymGetFingerprintString = "analysis_context_get_fingerprint_string"
	SymGetServerName        = "analysis_context_get_server_name"
	SymGetProcessInfo       = "analysis_context_get_process_info"
	SymGetMalwareInfo       = "analysis_context_get_malware_info"
	SymWriteStatsData       = "wirefp_write_stats_data"

	// v2
	SymRegisterErrorCallback = "register_printf_err_callback"

	// v3
	SymGetAnalysisContextLinkType = "wirefp_packet_processor_get_analysis_context_linktype"
	SymGetALPNs                   = "analysis_context_get_alpns"
	SymGetUserAgent               = "analysis_context_get_user_agent"
	SymWriteJSON                  = "analysis_context_write_json"
)

// Entry point signatures. They are aliases so that plugin symbols, whose
// dynamic types are unnamed, assert to them directly.
type (
	InitFunc                  = func(opts map[string]any) (*analysis.Engine, error)
	FinalizeFunc              = func(e *analysis.Engine) error
	ProcessorConstructFunc    = func(e *analysis.Engine) (*analysis.Processor, error)
	ProcessorDestructFunc     = func(p *analysis.Processor)
	GetAnalysisContextFunc    = func(p *analysis.Processor, data []byte, ts time.Time) *analysis.Context
	GetFingerprintTypeFunc    = func(c *analysis.Context) analysis.FingerprintType
	GetFingerprintStatusFunc  = func(c *analysis.Context) analysis.FingerprintStatus
	GetStringFunc             = func(c *analysis.Context) (string, bool)
	GetProcessInfoFunc        = func(c *analysis.Context) (name string, score float64, ok bool)
	GetMalwareInfoFunc        = func(c *analysis.Context) (malware bool, probability float64, ok bool)
	WriteStatsDataFunc        = func(e *analysis.Engine, w io.Writer) error
	RegisterErrorCallbackFunc = func(e *analysis.Engine, fn analysis.ErrorCallback)

	GetAnalysisContextLinkTypeFunc = func(p *analysis.Processor, data []byte, ts time.Time, lt core.LinkType) *analysis.Context
	GetALPNsFunc                   = func(c *analysis.Context) []string
	WriteJSONFunc                  = func(c *analysis.Context, w emitter.Writer, metadata bool)
)
