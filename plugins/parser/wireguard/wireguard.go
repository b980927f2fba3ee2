// Package wireguard parses WireGuard handshake initiation messages.
package wireguard

import (
	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// InitiationLength is the size of a handshake initiation message.
const InitiationLength = 148

// HandshakeInitiation is message type 1.
type HandshakeInitiation struct {
	senderIndex uint32
	ephemeral   datum.Datum
	valid       bool
}

// ParseHandshakeInitiation consumes exactly InitiationLength bytes.
func ParseHandshakeInitiation(d *datum.Datum) *HandshakeInitiation {
	m := &HandshakeInitiation{}
	if d.Length() != InitiationLength {
		return m
	}
	msgType := datum.Uint32(d, datum.LittleEndian) // type and three reserved bytes
	m.senderIndex = datum.Uint32(d, datum.LittleEndian)
	m.ephemeral = datum.Sub(d, 32)
	d.Skip(48 + 28 + 16 + 16) // static, timestamp, mac1, mac2
	m.valid = msgType == 1 && d.IsNotNull()
	return m
}

// IsNotEmpty reports whether the message had the initiation length and type.
func (m *HandshakeInitiation) IsNotEmpty() bool { return m.valid }

// SenderIndex returns the initiator's session index.
func (m *HandshakeInitiation) SenderIndex() uint32 { return m.senderIndex }

// WriteJSON writes {"wireguard":{...}}.
func (m *HandshakeInitiation) WriteJSON(w emitter.Writer, metadata bool) {
	if !m.valid {
		return
	}
	o := w.Object("wireguard")
	i := m.senderIndex
	o.Hex("sender_index", []byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)})
	if metadata {
		o.Hex("ephemeral", m.ephemeral.Bytes())
	}
}
