// Package http parses the first line and header block of HTTP/1.x requests
// and responses without copying them.
package http

import (
	"bytes"
	"encoding/hex"
	"strings"

	"golang.org/x/net/http/httpguts"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

var crlf = []byte("\r\n")

// Headers is the header block of a message, one "name: value\r\n" line per
// header. Complete is set when the terminating blank line was seen.
type Headers struct {
	block    datum.Datum
	Complete bool
}

// Field maps a header name (matched case-insensitively) to the key its
// value is written under.
type Field struct {
	Name string
	Key  string
}

// Parse consumes header lines from p. A line without a terminating CRLF
// ends the block at the start of that line and leaves p null.
func (h *Headers) Parse(p *datum.Datum) {
	start := *p
	for p.Length() > 0 {
		if p.AcceptPrefix(crlf) {
			h.Complete = true
			break
		}
		line := *p
		if !p.SkipUpToDelim(crlf) {
			h.block = datum.Sub(&start, start.Length()-line.Length())
			return
		}
	}
	h.block = datum.Sub(&start, start.Length()-p.Length())
}

// Bytes returns the raw header block.
func (h Headers) Bytes() []byte { return h.block.Bytes() }

// each calls fn for every well-formed header line until fn returns false.
func (h Headers) each(fn func(name, value, line []byte) bool) {
	p := h.block
	for p.Length() > 0 {
		if p.AcceptPrefix(crlf) {
			return
		}
		line := p.Bytes()
		if !p.SkipUpToDelim(crlf) {
			return
		}
		line = line[:len(line)-p.Length()-len(crlf)]
		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		name := line[:colon]
		if !httpguts.ValidHeaderFieldName(string(name)) {
			continue
		}
		value := bytes.TrimLeft(line[colon+1:], " \t")
		if !fn(name, value, line) {
			return
		}
	}
}

// Lookup returns the value of the first header called name.
func (h Headers) Lookup(name string) ([]byte, bool) {
	var (
		found []byte
		ok    bool
	)
	h.each(func(n, v, _ []byte) bool {
		if bytes.EqualFold(n, []byte(name)) {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// WriteHost writes the Host header value under key, if present.
func (h Headers) WriteHost(w emitter.Writer, key string) {
	if v, ok := h.Lookup("host"); ok {
		w.JSONString(key, v)
	}
}

// WriteMatchingNames writes the value of every header listed in fields.
func (h Headers) WriteMatchingNames(w emitter.Writer, fields []Field) {
	h.each(func(n, v, _ []byte) bool {
		for _, f := range fields {
			if bytes.EqualFold(n, []byte(f.Name)) {
				w.JSONString(f.Key, v)
				break
			}
		}
		return true
	})
}

// Fingerprint appends one "(hex)" group per header whose lower-cased name is
// in keywords. The whole line is included when the keyword maps to true,
// only the name otherwise.
func (h Headers) Fingerprint(b *strings.Builder, keywords map[string]bool) {
	var lower [64]byte
	h.each(func(n, _, line []byte) bool {
		if len(n) > len(lower) {
			return true
		}
		for i, c := range n {
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			lower[i] = c
		}
		includeValue, ok := keywords[string(lower[:len(n)])]
		if !ok {
			return true
		}
		b.WriteByte('(')
		if includeValue {
			b.WriteString(hex.EncodeToString(line))
		} else {
			b.WriteString(hex.EncodeToString(n))
		}
		b.WriteByte(')')
		return true
	})
}
