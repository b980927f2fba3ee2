package tls

import (
	"encoding/binary"
	"strings"

	"golang.org/x/crypto/cryptobyte"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// ClientHello is a TLS or DTLS ClientHello.
type ClientHello struct {
	dtls        bool
	version     uint16
	random      []byte
	sessionID   []byte
	cookie      []byte
	ciphers     []byte
	compression []byte
	extensions  []Extension
	valid       bool
}

// ParseClientHello parses a ClientHello inside a TLS record.
func ParseClientHello(d *datum.Datum) *ClientHello {
	return parseClientHello(d, false)
}

// ParseDTLSClientHello parses a ClientHello inside a DTLS record.
func ParseDTLSClientHello(d *datum.Datum) *ClientHello {
	return parseClientHello(d, true)
}

func parseClientHello(d *datum.Datum, dtls bool) *ClientHello {
	h := &ClientHello{dtls: dtls}
	s := cryptobyte.String(d.Bytes())
	body, ok := readRecord(&s, typeClientHello, dtls)
	if !ok {
		return h
	}
	consumed(d, s)

	var sessionID, cookie, ciphers, compression cryptobyte.String
	if !body.ReadUint16(&h.version) ||
		!body.ReadBytes(&h.random, randomLen) ||
		!body.ReadUint8LengthPrefixed(&sessionID) {
		return h
	}
	if dtls && !body.ReadUint8LengthPrefixed(&cookie) {
		return h
	}
	if !body.ReadUint16LengthPrefixed(&ciphers) || len(ciphers)%2 != 0 ||
		!body.ReadUint8LengthPrefixed(&compression) {
		return h
	}
	h.sessionID, h.cookie, h.ciphers, h.compression = sessionID, cookie, ciphers, compression
	h.extensions = readExtensions(&body)
	h.valid = true
	return h
}

// IsNotEmpty reports whether the hello parsed through its compression
// methods.
func (h *ClientHello) IsNotEmpty() bool { return h.valid }

// IsDTLS reports whether the hello came from a DTLS record.
func (h *ClientHello) IsDTLS() bool { return h.dtls }

func (h *ClientHello) Version() uint16         { return h.version }
func (h *ClientHello) Extensions() []Extension { return h.extensions }

// CipherSuites returns the offered cipher suites in order.
func (h *ClientHello) CipherSuites() []uint16 {
	out := make([]uint16, 0, len(h.ciphers)/2)
	for i := 0; i+1 < len(h.ciphers); i += 2 {
		out = append(out, binary.BigEndian.Uint16(h.ciphers[i:]))
	}
	return out
}

func (h *ClientHello) extension(typ uint16) (cryptobyte.String, bool) {
	for _, e := range h.extensions {
		if e.Type == typ {
			return e.Data, true
		}
	}
	return nil, false
}

// ServerName returns the host_name entry of the server_name extension.
func (h *ClientHello) ServerName() ([]byte, bool) {
	data, ok := h.extension(extServerName)
	if !ok {
		return nil, false
	}
	var list cryptobyte.String
	if !data.ReadUint16LengthPrefixed(&list) {
		return nil, false
	}
	for !list.Empty() {
		var (
			nameType uint8
			name     cryptobyte.String
		)
		if !list.ReadUint8(&nameType) || !list.ReadUint16LengthPrefixed(&name) {
			return nil, false
		}
		if nameType == 0 {
			return name, true
		}
	}
	return nil, false
}

// ALPNs returns the protocols offered in the ALPN extension.
func (h *ClientHello) ALPNs() [][]byte {
	data, ok := h.extension(extALPN)
	if !ok {
		return nil
	}
	var list cryptobyte.String
	if !data.ReadUint16LengthPrefixed(&list) {
		return nil
	}
	var protos [][]byte
	for !list.Empty() {
		var p cryptobyte.String
		if !list.ReadUint8LengthPrefixed(&p) {
			break
		}
		protos = append(protos, p)
	}
	return protos
}

// SupportedVersions returns the versions in the supported_versions
// extension, GREASE values included.
func (h *ClientHello) SupportedVersions() []uint16 {
	data, ok := h.extension(extSupportedVersions)
	if !ok {
		return nil
	}
	var list cryptobyte.String
	if !data.ReadUint8LengthPrefixed(&list) {
		return nil
	}
	var versions []uint16
	for !list.Empty() {
		var v uint16
		if !list.ReadUint16(&v) {
			break
		}
		versions = append(versions, v)
	}
	return versions
}

// Fingerprint returns "(version)(cipher suites)((extension)...)" in hex,
// with GREASE values replaced by 0a0a.
func (h *ClientHello) Fingerprint() string {
	if !h.valid {
		return ""
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(hexUint16(h.version))
	b.WriteString(")(")
	for _, c := range h.CipherSuites() {
		b.WriteString(hexUint16(degrease(c)))
	}
	b.WriteString(")(")
	writeExtensionFingerprint(&b, h.extensions)
	b.WriteByte(')')
	return b.String()
}

// WriteJSON writes {"tls":{"client":{...}}}, or "dtls" for DTLS.
func (h *ClientHello) WriteJSON(w emitter.Writer, metadata bool) {
	if !h.valid {
		return
	}
	key := "tls"
	if h.dtls {
		key = "dtls"
	}
	o := w.Object(key).Object("client")
	o.String("version", hexUint16(h.version))
	o.Hex("random", h.random)
	o.Hex("session_id", h.sessionID)
	if h.dtls {
		o.Hex("cookie", h.cookie)
	}
	o.Hex("cipher_suites", h.ciphers)
	o.Hex("compression_methods", h.compression)
	if sni, ok := h.ServerName(); ok {
		o.JSONString("server_name", sni)
	}
	if protos := h.ALPNs(); len(protos) > 0 {
		a := o.Array("application_layer_protocol_negotiation")
		for _, p := range protos {
			a.String(string(p))
		}
	}
	if metadata {
		writeExtensions(o, h.extensions)
	}
}
