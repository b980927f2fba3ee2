// Package tls parses TLS and DTLS ClientHello and ServerHello handshake
// messages and computes their fingerprints.
package tls

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/cryptobyte"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

const (
	contentTypeHandshake = 0x16

	typeClientHello = 0x01
	typeServerHello = 0x02

	extServerName        = 0x0000
	extALPN              = 0x0010
	extSupportedVersions = 0x002b

	randomLen = 32
)

// ClientHelloMatcher recognises a TLS record carrying a ClientHello with a
// 3.x handshake version.
var ClientHelloMatcher = datum.NewMatcher(
	[]byte{0xff, 0xff, 0xfc, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0xff, 0xfc},
	[]byte{0x16, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x03, 0x00},
	0,
)

// ServerHelloMatcher recognises a TLS record carrying a ServerHello.
var ServerHelloMatcher = datum.NewMatcher(
	[]byte{0xff, 0xff, 0xfc, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0xff, 0xfc},
	[]byte{0x16, 0x03, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 0x00},
	0,
)

// includeData lists the extensions whose contents are part of a
// fingerprint; for all others only the type is used.
var includeData = map[uint16]bool{
	0x0001: true, // max_fragment_length
	0x0005: true, // status_request
	0x0007: true, // client_authz
	0x0008: true, // server_authz
	0x0009: true, // cert_type
	0x000a: true, // supported_groups
	0x000b: true, // ec_point_formats
	0x000d: true, // signature_algorithms
	0x000f: true, // heartbeat
	0x0010: true, // application_layer_protocol_negotiation
	0x0011: true, // status_request_v2
	0x0018: true, // token_binding
	0x001b: true, // compress_certificate
	0x001c: true, // record_size_limit
	0x002b: true, // supported_versions
	0x002d: true, // psk_key_exchange_modes
	0x5500: true,
}

// Extension is a raw hello extension.
type Extension struct {
	Type uint16
	Data []byte
}

// IsGREASE reports whether v is one of the reserved GREASE values
// (0x0a0a, 0x1a1a, ... 0xfafa).
func IsGREASE(v uint16) bool {
	return v&0x0f0f == 0x0a0a && v>>8 == v&0xff
}

func degrease(v uint16) uint16 {
	if IsGREASE(v) {
		return 0x0a0a
	}
	return v
}

// readRecord strips a TLS record header and returns the handshake body of
// the expected type. Lengths that run past the buffer are clamped so that
// hellos split across segments still parse as far as they go.
func readRecord(s *cryptobyte.String, handshakeType uint8, dtls bool) (cryptobyte.String, bool) {
	var (
		contentType uint8
		version     uint16
		length      uint16
	)
	if !s.ReadUint8(&contentType) || contentType != contentTypeHandshake || !s.ReadUint16(&version) {
		return nil, false
	}
	if dtls && !s.Skip(8) { // epoch, sequence number
		return nil, false
	}
	if !s.ReadUint16(&length) {
		return nil, false
	}
	fragment := clamp(s, int(length))

	var (
		msgType uint8
		msgLen  uint32
	)
	if !fragment.ReadUint8(&msgType) || msgType != handshakeType || !fragment.ReadUint24(&msgLen) {
		return nil, false
	}
	if dtls && !fragment.Skip(8) { // message_seq, fragment_offset, fragment_length
		return nil, false
	}
	return clamp(&fragment, int(msgLen)), true
}

func clamp(s *cryptobyte.String, n int) cryptobyte.String {
	if n > len(*s) {
		n = len(*s)
	}
	var out cryptobyte.String
	s.ReadBytes((*[]byte)(&out), n)
	return out
}

func readExtensions(s *cryptobyte.String) []Extension {
	var block cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&block) {
		return nil
	}
	var exts []Extension
	for !block.Empty() {
		var (
			typ  uint16
			data cryptobyte.String
		)
		if !block.ReadUint16(&typ) || !block.ReadUint16LengthPrefixed(&data) {
			break
		}
		exts = append(exts, Extension{Type: typ, Data: data})
	}
	return exts
}

func writeExtensionFingerprint(b *strings.Builder, exts []Extension) {
	var buf [2]byte
	for _, e := range exts {
		b.WriteByte('(')
		binary.BigEndian.PutUint16(buf[:], degrease(e.Type))
		b.WriteString(hex.EncodeToString(buf[:]))
		if includeData[e.Type] {
			binary.BigEndian.PutUint16(buf[:], uint16(len(e.Data)))
			b.WriteString(hex.EncodeToString(buf[:]))
			b.WriteString(hex.EncodeToString(e.Data))
		}
		b.WriteByte(')')
	}
}

func writeExtensions(w emitter.Writer, exts []Extension) {
	a := w.Array("extensions")
	for _, e := range exts {
		o := a.Object()
		o.Uint("type", uint64(e.Type))
		o.Hex("data", e.Data)
	}
}

func hexUint16(v uint16) string {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return hex.EncodeToString(buf[:])
}

// consumed advances d past everything s no longer holds.
func consumed(d *datum.Datum, s cryptobyte.String) {
	d.Skip(d.Length() - len(s))
}
