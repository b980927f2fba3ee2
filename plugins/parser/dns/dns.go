// Package dns summarises DNS queries and responses.
package dns

import (
	"strconv"

	mdns "github.com/miekg/dns"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Message is a decoded DNS message.
type Message struct {
	msg   mdns.Msg
	valid bool
}

// ParseMessage decodes the whole of d as a DNS message.
func ParseMessage(d *datum.Datum) *Message {
	m := &Message{}
	if d.Length() == 0 {
		return m
	}
	if err := m.msg.Unpack(d.Bytes()); err != nil {
		return m
	}
	d.Skip(d.Length())
	m.valid = true
	return m
}

func (m *Message) IsNotEmpty() bool { return m.valid }

// IsResponse reports whether the QR bit is set.
func (m *Message) IsResponse() bool { return m.msg.Response }

// QueryName returns the name of the first question.
func (m *Message) QueryName() (string, bool) {
	if !m.valid || len(m.msg.Question) == 0 {
		return "", false
	}
	return m.msg.Question[0].Name, true
}

// Msg exposes the decoded message.
func (m *Message) Msg() *mdns.Msg { return &m.msg }

func typeString(t uint16) string {
	if s, ok := mdns.TypeToString[t]; ok {
		return s
	}
	return "TYPE" + strconv.Itoa(int(t))
}

func classString(c uint16) string {
	if s, ok := mdns.ClassToString[c]; ok {
		return s
	}
	return "CLASS" + strconv.Itoa(int(c))
}

// WriteJSON writes {"dns":{...}}.
func (m *Message) WriteJSON(w emitter.Writer, metadata bool) {
	if !m.valid {
		return
	}
	o := w.Object("dns")
	o.Uint("id", uint64(m.msg.Id))
	o.Bool("response", m.msg.Response)
	o.String("opcode", mdns.OpcodeToString[m.msg.Opcode])
	if m.msg.Response {
		o.String("rcode", mdns.RcodeToString[m.msg.Rcode])
	}
	qs := o.Array("questions")
	for _, q := range m.msg.Question {
		qo := qs.Object()
		qo.String("name", q.Name)
		qo.String("type", typeString(q.Qtype))
		qo.String("class", classString(q.Qclass))
	}
	o.Uint("answer_count", uint64(len(m.msg.Answer)))
	o.Uint("authority_count", uint64(len(m.msg.Ns)))
	o.Uint("additional_count", uint64(len(m.msg.Extra)))
	if !metadata {
		return
	}
	as := o.Array("answers")
	for _, rr := range m.msg.Answer {
		h := rr.Header()
		ao := as.Object()
		ao.String("name", h.Name)
		ao.String("type", typeString(h.Rrtype))
		ao.Uint("ttl", uint64(h.Ttl))
		if s := mdns.Field(rr, 1); s != "" {
			ao.String("data", s)
		}
	}
}
