package engine

import (
	"io"
	"time"

	"firestige.xyz/wirefp/internal/analysis"
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Builtin returns the symbol table of the in-process engine. It exports
// every tier.
func Builtin() StaticResolver {
	return StaticResolver{
		SymInit:                       InitFunc(builtinInit),
		SymFinalize:                   FinalizeFunc(func(e *analysis.Engine) error { return e.Close() }),
		SymProcessorConstruct:         ProcessorConstructFunc(func(e *analysis.Engine) (*analysis.Processor, error) { return e.NewProcessor() }),
		SymProcessorDestruct:          ProcessorDestructFunc(func(p *analysis.Processor) { p.Close() }),
		SymGetAnalysisContext:         GetAnalysisContextFunc(func(p *analysis.Processor, data []byte, ts time.Time) *analysis.Context { return p.Analyze(data, ts) }),
		SymGetFingerprintType:         GetFingerprintTypeFunc(func(c *analysis.Context) analysis.FingerprintType { return c.FingerprintType() }),
		SymGetFingerprintStatus:       GetFingerprintStatusFunc(func(c *analysis.Context) analysis.FingerprintStatus { return c.FingerprintStatus() }),
		SymGetFingerprintString:       GetStringFunc(func(c *analysis.Context) (string, bool) { return c.FingerprintString() }),
		SymGetServerName:              GetStringFunc(func(c *analysis.Context) (string, bool) { return c.ServerName() }),
		SymGetProcessInfo:             GetProcessInfoFunc(func(c *analysis.Context) (string, float64, bool) { return c.ProcessInfo() }),
		SymGetMalwareInfo:             GetMalwareInfoFunc(func(c *analysis.Context) (bool, float64, bool) { return c.MalwareInfo() }),
		SymWriteStatsData:             WriteStatsDataFunc(func(e *analysis.Engine, w io.Writer) error { return e.WriteStats(w) }),
		SymRegisterErrorCallback:      RegisterErrorCallbackFunc(func(e *analysis.Engine, fn analysis.ErrorCallback) { e.RegisterErrorCallback(fn) }),
		SymGetAnalysisContextLinkType: GetAnalysisContextLinkTypeFunc(builtinAnalyzeLinkType),
		SymGetALPNs:                   GetALPNsFunc(func(c *analysis.Context) []string { return c.ALPNs() }),
		SymGetUserAgent:               GetStringFunc(func(c *analysis.Context) (string, bool) { return c.UserAgent() }),
		SymWriteJSON:                  WriteJSONFunc(func(c *analysis.Context, w emitter.Writer, metadata bool) { c.WriteJSON(w, metadata) }),
	}
}

func builtinInit(opts map[string]any) (*analysis.Engine, error) {
	cfg, err := analysis.DecodeConfig(opts)
	if err != nil {
		return nil, err
	}
	return analysis.NewEngine(cfg), nil
}

func builtinAnalyzeLinkType(p *analysis.Processor, data []byte, ts time.Time, lt core.LinkType) *analysis.Context {
	return p.AnalyzeLinkType(data, ts, lt)
}
