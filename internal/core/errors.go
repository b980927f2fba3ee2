// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Callers wrap them with fmt.Errorf("...: %w", err).
var (
	// Packet decoding errors
	ErrPacketTooShort      = errors.New("wirefp: packet too short")
	ErrUnsupportedProto    = errors.New("wirefp: unsupported protocol")
	ErrUnsupportedLinkType = errors.New("wirefp: unsupported link type")

	// Engine binding errors
	ErrBindFailed     = errors.New("wirefp: engine bind failed")
	ErrSymbolNotFound = errors.New("wirefp: symbol not found")
	ErrSymbolType     = errors.New("wirefp: symbol has unexpected type")
	ErrEngineClosed   = errors.New("wirefp: engine closed")

	// Configuration errors
	ErrConfigInvalid = errors.New("wirefp: invalid configuration")

	// Source and sink errors
	ErrSourceClosed = errors.New("wirefp: source closed")
	ErrSinkClosed   = errors.New("wirefp: sink closed")
)
