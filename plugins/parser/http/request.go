package http

import (
	"encoding/hex"
	"strings"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Request is the request line and headers of an HTTP/1.x request.
type Request struct {
	method   datum.Datum
	uri      datum.Datum
	protocol datum.Datum
	headers  Headers
}

// requestKeywords selects the headers that take part in the request
// fingerprint; true means the value is included.
var requestKeywords = map[string]bool{
	"accept":                    true,
	"accept-encoding":           true,
	"connection":                true,
	"dnt":                       true,
	"dpr":                       true,
	"upgrade-insecure-requests": true,
	"x-requested-with":          true,
	"accept-charset":            false,
	"accept-language":           false,
	"authorization":             false,
	"cache-control":             false,
	"host":                      false,
	"if-modified-since":         false,
	"keep-alive":                false,
	"user-agent":                false,
	"x-flash-version":           false,
	"x-p2p-peerdist":            false,
}

var requestFields = []Field{
	{Name: "user-agent", Key: "user_agent"},
}

var requestMetadataFields = []Field{
	{Name: "x-forwarded-for", Key: "x_forwarded_for"},
	{Name: "via", Key: "via"},
	{Name: "upgrade", Key: "upgrade"},
	{Name: "referer", Key: "referer"},
}

// ParseRequest parses "METHOD SP URI SP PROTOCOL CRLF headers" from p.
func ParseRequest(p *datum.Datum) *Request {
	r := &Request{}
	r.method = datum.UpToDelim(p, ' ')
	p.Skip(1)
	r.uri = datum.UpToDelim(p, ' ')
	p.Skip(1)
	r.protocol = datum.UpToDelim(p, '\r')
	p.Skip(2)
	r.headers.Parse(p)
	return r
}

// IsNotEmpty reports whether a request line with a URI was found.
func (r *Request) IsNotEmpty() bool { return r.uri.IsNotEmpty() }

func (r *Request) Method() []byte    { return r.method.Bytes() }
func (r *Request) URI() []byte       { return r.uri.Bytes() }
func (r *Request) Protocol() []byte  { return r.protocol.Bytes() }
func (r *Request) Headers() *Headers { return &r.headers }

// UserAgent returns the User-Agent header value.
func (r *Request) UserAgent() ([]byte, bool) { return r.headers.Lookup("user-agent") }

// Host returns the Host header value.
func (r *Request) Host() ([]byte, bool) { return r.headers.Lookup("host") }

// WriteJSON writes {"http":{"request":{...}}}. Nothing is written for an
// empty request.
func (r *Request) WriteJSON(w emitter.Writer, metadata bool) {
	if !r.IsNotEmpty() {
		return
	}
	o := w.Object("http").Object("request")
	o.JSONString("method", r.method.Bytes())
	o.JSONString("uri", r.uri.Bytes())
	o.JSONString("protocol", r.protocol.Bytes())
	r.headers.WriteHost(o, "host")
	r.headers.WriteMatchingNames(o, requestFields)
	if metadata {
		r.headers.WriteMatchingNames(o, requestMetadataFields)
		o.Bool("headers_complete", r.headers.Complete)
	}
}

// Fingerprint returns "(method)(protocol)((header)...)" with every group
// hex encoded.
func (r *Request) Fingerprint() string {
	if !r.IsNotEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(hex.EncodeToString(r.method.Bytes()))
	b.WriteString(")(")
	b.WriteString(hex.EncodeToString(r.protocol.Bytes()))
	b.WriteString(")(")
	r.headers.Fingerprint(&b, requestKeywords)
	b.WriteByte(')')
	return b.String()
}
