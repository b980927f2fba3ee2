// Package tofsee recognises the obfuscated greeting a Tofsee bot receives
// from its command server.
//
// The message is 200 bytes, obfuscated with a fixed byte-wise transform.
// Once de-obfuscated it holds a 128-byte key, 16 unknown bytes, the bot's
// public IPv4 address, the server time and 48 more unknown bytes. There is
// no fixed prefix to match on; real messages are told apart from noise by
// the low Hamming weight of the first unknown field.
package tofsee

import (
	"math/bits"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

const (
	// MessageLength is the exact size of an initial message.
	MessageLength = 200

	initialState    = 198
	stateMask       = 0xc6
	weightThreshold = 16
)

// InitialMessage is a de-obfuscated initial message. Its fields view the
// plaintext buffer it owns, so it is only handled by pointer.
type InitialMessage struct {
	plaintext [MessageLength]byte
	key       datum.Datum
	unknown1  datum.Datum
	ipv4      datum.Datum
	srvTime   datum.Datum
	unknown2  datum.Datum
}

// Decrypt de-obfuscates src into dst, which must be at least as long.
func Decrypt(dst, src []byte) {
	state := byte(initialState)
	for i, c := range src {
		dst[i] = state ^ bits.RotateLeft8(c, 5)
		state = c ^ stateMask
	}
}

// ParseInitialMessage consumes exactly MessageLength bytes from ct. Any
// other length nulls ct and yields an empty message.
func ParseInitialMessage(ct *datum.Datum) *InitialMessage {
	m := &InitialMessage{}
	if ct.Length() != MessageLength {
		ct.SetNull()
		null := datum.Null()
		m.key, m.unknown1, m.ipv4, m.srvTime, m.unknown2 = null, null, null, null, null
		return m
	}
	Decrypt(m.plaintext[:], ct.Bytes())
	ct.Skip(MessageLength)

	pt := datum.New(m.plaintext[:])
	m.key = datum.Sub(&pt, 128)
	m.unknown1 = datum.Sub(&pt, 16)
	m.ipv4 = datum.Sub(&pt, 4)
	m.srvTime = datum.Sub(&pt, 4)
	m.unknown2 = datum.Sub(&pt, 48)
	return m
}

// Weight returns the number of set bits in the first unknown field.
func (m *InitialMessage) Weight() int {
	w := 0
	for _, b := range m.unknown1.Bytes() {
		w += bits.OnesCount8(b)
	}
	return w
}

// IsNotEmpty reports whether the message parsed and looks like a real
// Tofsee greeting.
func (m *InitialMessage) IsNotEmpty() bool {
	if m.unknown2.IsNull() {
		return false
	}
	return m.Weight() < weightThreshold
}

// BotIP returns the bot address as four bytes.
func (m *InitialMessage) BotIP() []byte { return m.ipv4.Bytes() }

// Key returns the session key the bot announces.
func (m *InitialMessage) Key() []byte { return m.key.Bytes() }

// ServerTime returns the server timestamp field as raw bytes.
func (m *InitialMessage) ServerTime() []byte { return m.srvTime.Bytes() }

// WriteJSON writes {"tofsee_initial_message":{...}} for an accepted
// message.
func (m *InitialMessage) WriteJSON(w emitter.Writer, _ bool) {
	if !m.IsNotEmpty() {
		return
	}
	o := w.Object("tofsee_initial_message")
	o.Hex("key", m.key.Bytes())
	o.Hex("unknown_1", m.unknown1.Bytes())
	o.IPv4("bot_ip", m.ipv4.Bytes())
	o.Hex("srv_time", m.srvTime.Bytes())
	o.Hex("unknown_2", m.unknown2.Bytes())
}
