package tls

import (
	"strings"

	"golang.org/x/crypto/cryptobyte"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// ServerHello is a TLS or DTLS ServerHello.
type ServerHello struct {
	dtls        bool
	version     uint16
	random      []byte
	sessionID   []byte
	cipher      uint16
	compression uint8
	extensions  []Extension
	valid       bool
}

// ParseServerHello parses a ServerHello inside a TLS record.
func ParseServerHello(d *datum.Datum) *ServerHello {
	return parseServerHello(d, false)
}

// ParseDTLSServerHello parses a ServerHello inside a DTLS record.
func ParseDTLSServerHello(d *datum.Datum) *ServerHello {
	return parseServerHello(d, true)
}

func parseServerHello(d *datum.Datum, dtls bool) *ServerHello {
	h := &ServerHello{dtls: dtls}
	s := cryptobyte.String(d.Bytes())
	body, ok := readRecord(&s, typeServerHello, dtls)
	if !ok {
		return h
	}
	consumed(d, s)

	var sessionID cryptobyte.String
	if !body.ReadUint16(&h.version) ||
		!body.ReadBytes(&h.random, randomLen) ||
		!body.ReadUint8LengthPrefixed(&sessionID) ||
		!body.ReadUint16(&h.cipher) ||
		!body.ReadUint8(&h.compression) {
		return h
	}
	h.sessionID = sessionID
	h.extensions = readExtensions(&body)
	h.valid = true
	return h
}

func (h *ServerHello) IsNotEmpty() bool        { return h.valid }
func (h *ServerHello) IsDTLS() bool            { return h.dtls }
func (h *ServerHello) Version() uint16         { return h.version }
func (h *ServerHello) CipherSuite() uint16     { return h.cipher }
func (h *ServerHello) Extensions() []Extension { return h.extensions }

// SelectedVersion returns the version from supported_versions, which
// TLS 1.3 servers use instead of the legacy version field.
func (h *ServerHello) SelectedVersion() (uint16, bool) {
	for _, e := range h.extensions {
		if e.Type != extSupportedVersions {
			continue
		}
		var v uint16
		data := cryptobyte.String(e.Data)
		if data.ReadUint16(&v) {
			return v, true
		}
	}
	return 0, false
}

// ALPN returns the protocol the server selected.
func (h *ServerHello) ALPN() ([]byte, bool) {
	for _, e := range h.extensions {
		if e.Type != extALPN {
			continue
		}
		var list, proto cryptobyte.String
		data := cryptobyte.String(e.Data)
		if data.ReadUint16LengthPrefixed(&list) && list.ReadUint8LengthPrefixed(&proto) {
			return proto, true
		}
	}
	return nil, false
}

// Fingerprint returns "(version)(cipher suite)((extension)...)".
func (h *ServerHello) Fingerprint() string {
	if !h.valid {
		return ""
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(hexUint16(h.version))
	b.WriteString(")(")
	b.WriteString(hexUint16(h.cipher))
	b.WriteString(")(")
	writeExtensionFingerprint(&b, h.extensions)
	b.WriteByte(')')
	return b.String()
}

// WriteJSON writes {"tls":{"server":{...}}}, or "dtls" for DTLS.
func (h *ServerHello) WriteJSON(w emitter.Writer, metadata bool) {
	if !h.valid {
		return
	}
	key := "tls"
	if h.dtls {
		key = "dtls"
	}
	o := w.Object(key).Object("server")
	o.String("version", hexUint16(h.version))
	o.Hex("random", h.random)
	o.Hex("session_id", h.sessionID)
	o.String("selected_cipher_suite", hexUint16(h.cipher))
	o.Uint("compression_method", uint64(h.compression))
	if v, ok := h.SelectedVersion(); ok {
		o.String("selected_version", hexUint16(v))
	}
	if p, ok := h.ALPN(); ok {
		o.JSONString("application_layer_protocol_negotiation", p)
	}
	if metadata {
		writeExtensions(o, h.extensions)
	}
}
