package engine

import (
	"errors"
	"fmt"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/log"
)

// API is a bound engine. Entry points of tiers above Version are nil.
type API struct {
	Version int

	// v1
	Init                 InitFunc
	Finalize             FinalizeFunc
	ProcessorConstruct   ProcessorConstructFunc
	ProcessorDestruct    ProcessorDestructFunc
	GetAnalysisContext   GetAnalysisContextFunc
	GetFingerprintType   GetFingerprintTypeFunc
	GetFingerprintStatus GetFingerprintStatusFunc
	GetFingerprintString GetStringFunc
	GetServerName        GetStringFunc
	GetProcessInfo       GetProcessInfoFunc
	GetMalwareInfo       GetMalwareInfoFunc
	WriteStatsData       WriteStatsDataFunc

	// v2
	RegisterErrorCallback RegisterErrorCallbackFunc

	// v3
	GetAnalysisContextLinkType GetAnalysisContextLinkTypeFunc
	GetALPNs                   GetALPNsFunc
	GetUserAgent               GetStringFunc
	WriteJSON                  WriteJSONFunc
}

// binder accumulates the first error of a tier.
type binder struct {
	r   Resolver
	err error
}

func bind[T any](b *binder, dst *T, symbol string) {
	if b.err != nil {
		return
	}
	sym, err := b.r.Lookup(symbol)
	if err != nil {
		b.err = err
		return
	}
	switch f := sym.(type) {
	case T:
		*dst = f
	case *T:
		// plugin variables resolve to pointers
		if f == nil {
			b.err = fmt.Errorf("%s: %w", symbol, core.ErrSymbolNotFound)
			return
		}
		*dst = *f
	default:
		b.err = fmt.Errorf("%s is %T: %w", symbol, sym, core.ErrSymbolType)
	}
}

// Bind resolves the engine entry points from r. Missing version 1 symbols
// fail the bind. A missing version 2 or 3 symbol leaves that tier and the
// ones above it unbound. Lookup errors other than a missing symbol always
// fail.
func Bind(r Resolver) (*API, error) {
	logger := log.GetLogger().WithField("component", "engine")
	var api API

	b := &binder{r: r}
	bind(b, &api.Init, SymInit)
	bind(b, &api.Finalize, SymFinalize)
	bind(b, &api.ProcessorConstruct, SymProcessorConstruct)
	bind(b, &api.ProcessorDestruct, SymProcessorDestruct)
	bind(b, &api.GetAnalysisContext, SymGetAnalysisContext)
	bind(b, &api.GetFingerprintType, SymGetFingerprintType)
	bind(b, &api.GetFingerprintStatus, SymGetFingerprintStatus)
	bind(b, &api.GetFingerprintString, SymGetFingerprintString)
	bind(b, &api.GetServerName, SymGetServerName)
	bind(b, &api.GetProcessInfo, SymGetProcessInfo)
	bind(b, &api.GetMalwareInfo, SymGetMalwareInfo)
	bind(b, &api.WriteStatsData, SymWriteStatsData)
	if b.err != nil {
		return nil, fmt.Errorf("bind v1: %w: %w", core.ErrBindFailed, b.err)
	}
	api.Version = 1

	var v2 API
	b = &binder{r: r}
	bind(b, &v2.RegisterErrorCallback, SymRegisterErrorCallback)
	if err := tierErr(b.err); err != nil {
		return nil, fmt.Errorf("bind v2: %w: %w", core.ErrBindFailed, err)
	}
	if b.err != nil {
		logger.WithError(b.err).Info("engine v2 symbols unavailable")
		return finish(logger, &api), nil
	}
	api.RegisterErrorCallback = v2.RegisterErrorCallback
	api.Version = 2

	var v3 API
	b = &binder{r: r}
	bind(b, &v3.GetAnalysisContextLinkType, SymGetAnalysisContextLinkType)
	bind(b, &v3.GetALPNs, SymGetALPNs)
	bind(b, &v3.GetUserAgent, SymGetUserAgent)
	bind(b, &v3.WriteJSON, SymWriteJSON)
	if err := tierErr(b.err); err != nil {
		return nil, fmt.Errorf("bind v3: %w: %w", core.ErrBindFailed, err)
	}
	if b.err != nil {
		logger.WithError(b.err).Info("engine v3 symbols unavailable")
		return finish(logger, &api), nil
	}
	api.GetAnalysisContextLinkType = v3.GetAnalysisContextLinkType
	api.GetALPNs = v3.GetALPNs
	api.GetUserAgent = v3.GetUserAgent
	api.WriteJSON = v3.WriteJSON
	api.Version = 3
	return finish(logger, &api), nil
}

// tierErr returns err unless it only reports a missing symbol.
func tierErr(err error) error {
	if err == nil || errors.Is(err, core.ErrSymbolNotFound) {
		return nil
	}
	return err
}

func finish(logger log.Logger, api *API) *API {
	logger.Infof("engine api version %d bound", api.Version)
	return api
}

// BindBuiltin binds the in-process engine.
func BindBuiltin() *API {
	api, err := Bind(Builtin())
	if err != nil {
		panic(err)
	}
	return api
}

// BindPlugin opens and binds the engine plugin at path.
func BindPlugin(path string) (*API, error) {
	r, err := OpenPlugin(path)
	if err != nil {
		return nil, err
	}
	return Bind(r)
}
