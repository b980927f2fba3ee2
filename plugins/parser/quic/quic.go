// Package quic parses QUIC long packet headers.
package quic

import (
	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

const maxConnIDLen = 20

// LongHeader is the invariant part of a QUIC long header packet.
type LongHeader struct {
	first   uint8
	version uint32
	dcid    datum.Datum
	scid    datum.Datum
	valid   bool
}

// ParseLongHeader parses the header fields every QUIC version shares. The
// rest of d, the version-specific payload, is left unconsumed.
func ParseLongHeader(d *datum.Datum) *LongHeader {
	h := &LongHeader{}
	h.first = datum.Uint8(d)
	h.version = datum.Uint32(d, datum.BigEndian)
	dcidLen := datum.Uint8(d)
	h.dcid = datum.Sub(d, int(dcidLen))
	scidLen := datum.Uint8(d)
	h.scid = datum.Sub(d, int(scidLen))
	h.valid = d.IsNotNull() && h.first&0x80 != 0 &&
		dcidLen <= maxConnIDLen && scidLen <= maxConnIDLen
	return h
}

// IsNotEmpty reports whether the long header parsed cleanly.
func (h *LongHeader) IsNotEmpty() bool { return h.valid }

// Version returns the QUIC version field.
func (h *LongHeader) Version() uint32 { return h.version }

// PacketType returns the two long-header type bits.
func (h *LongHeader) PacketType() uint8 { return h.first >> 4 & 0x03 }

// DestinationConnectionID returns the destination connection id.
func (h *LongHeader) DestinationConnectionID() []byte { return h.dcid.Bytes() }

// SourceConnectionID returns the source connection id.
func (h *LongHeader) SourceConnectionID() []byte { return h.scid.Bytes() }

// WriteJSON writes {"quic":{...}}.
func (h *LongHeader) WriteJSON(w emitter.Writer, metadata bool) {
	if !h.valid {
		return
	}
	o := w.Object("quic")
	o.Hex("version", []byte{byte(h.version >> 24), byte(h.version >> 16), byte(h.version >> 8), byte(h.version)})
	o.Hex("dcid", h.dcid.Bytes())
	o.Hex("scid", h.scid.Bytes())
	if metadata {
		o.Uint("packet_type", uint64(h.PacketType()))
	}
}
