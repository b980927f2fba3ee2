// Package dhcp summarises DHCPv4 client messages.
package dhcp

import (
	"encoding/hex"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// options whose data is part of the fingerprint
var includeData = map[layers.DHCPOpt]bool{
	layers.DHCPOptParamsRequest:  true,
	layers.DHCPOptMaxMessageSize: true,
	layers.DHCPOptClassID:        true,
}

// Message is a decoded DHCPv4 message.
type Message struct {
	pkt   layers.DHCPv4
	valid bool
}

// ParseMessage decodes the whole of d. Option data is not copied.
func ParseMessage(d *datum.Datum) *Message {
	m := &Message{}
	if err := m.pkt.DecodeFromBytes(d.Bytes(), gopacket.NilDecodeFeedback); err != nil {
		return m
	}
	d.Skip(d.Length())
	m.valid = true
	return m
}

func (m *Message) IsNotEmpty() bool { return m.valid }

func (m *Message) option(t layers.DHCPOpt) ([]byte, bool) {
	for _, o := range m.pkt.Options {
		if o.Type == t {
			return o.Data, true
		}
	}
	return nil, false
}

// MessageType returns the value of option 53.
func (m *Message) MessageType() (layers.DHCPMsgType, bool) {
	b, ok := m.option(layers.DHCPOptMessageType)
	if !ok || len(b) != 1 {
		return layers.DHCPMsgTypeUnspecified, false
	}
	return layers.DHCPMsgType(b[0]), true
}

// Hostname returns the value of option 12.
func (m *Message) Hostname() ([]byte, bool) { return m.option(layers.DHCPOptHostname) }

// Fingerprint returns "((option)...)" with the data of selected options
// appended to their type.
func (m *Message) Fingerprint() string {
	if !m.valid {
		return ""
	}
	var b strings.Builder
	b.WriteByte('(')
	for _, o := range m.pkt.Options {
		if o.Type == layers.DHCPOptPad {
			continue
		}
		b.WriteByte('(')
		b.WriteString(hex.EncodeToString([]byte{byte(o.Type)}))
		if includeData[o.Type] {
			b.WriteString(hex.EncodeToString(o.Data))
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

// WriteJSON writes {"dhcp":{...}}.
func (m *Message) WriteJSON(w emitter.Writer, metadata bool) {
	if !m.valid {
		return
	}
	o := w.Object("dhcp")
	o.String("op", m.pkt.Operation.String())
	o.Hex("xid", []byte{byte(m.pkt.Xid >> 24), byte(m.pkt.Xid >> 16), byte(m.pkt.Xid >> 8), byte(m.pkt.Xid)})
	o.String("client_mac", m.pkt.ClientHWAddr.String())
	if t, ok := m.MessageType(); ok {
		o.String("msg_type", t.String())
	}
	if v, ok := m.Hostname(); ok {
		o.JSONString("hostname", v)
	}
	if v, ok := m.option(layers.DHCPOptClassID); ok {
		o.JSONString("vendor_class", v)
	}
	if v, ok := m.option(layers.DHCPOptParamsRequest); ok {
		o.Hex("parameter_list", v)
	}
	if metadata {
		a := o.Array("options")
		for _, opt := range m.pkt.Options {
			a.Uint(uint64(opt.Type))
		}
	}
}
