package http

import (
	"encoding/hex"
	"strings"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Response is the status line and headers of an HTTP/1.x response.
type Response struct {
	version datum.Datum
	code    datum.Datum
	reason  datum.Datum
	headers Headers
}

var responseKeywords = map[string]bool{
	"access-control-allow-credentials": true,
	"access-control-allow-headers":     true,
	"access-control-allow-methods":     true,
	"access-control-expose-headers":    true,
	"cache-control":                    true,
	"code":                             true,
	"connection":                       true,
	"content-language":                 true,
	"content-transfer-encoding":        true,
	"p3p":                              true,
	"pragma":                           true,
	"reason":                           true,
	"server":                           true,
	"strict-transport-security":        true,
	"version":                          true,
	"x-aspnetmvc-version":              true,
	"x-aspnet-version":                 true,
	"x-cid":                            true,
	"x-ms-version":                     true,
	"x-xss-protection":                 true,
	"appex-activity-id":                false,
	"cdnuuid":                          false,
	"cf-ray":                           false,
	"content-range":                    false,
	"content-type":                     false,
	"date":                             false,
	"etag":                             false,
	"expires":                          false,
	"flow_context":                     false,
	"ms-cv":                            false,
	"msregion":                         false,
	"ms-requestid":                     false,
	"request-id":                       false,
	"vary":                             false,
	"x-amz-cf-pop":                     false,
	"x-amz-request-id":                 false,
	"x-azure-ref-originshield":         false,
	"x-cache":                          false,
	"x-cache-hits":                     false,
	"x-ccc":                            false,
	"x-diagnostic-s":                   false,
	"x-feserver":                       false,
	"x-hw":                             false,
	"x-msedge-ref":                     false,
	"x-ocsp-responder-id":              false,
	"x-requestid":                      false,
	"x-served-by":                      false,
	"x-timer":                          false,
	"x-trace-context":                  false,
}

var responseFields = []Field{
	{Name: "content-type", Key: "content_type"},
	{Name: "content-length", Key: "content_length"},
	{Name: "server", Key: "server"},
	{Name: "via", Key: "via"},
	{Name: "location", Key: "location"},
}

// ParseResponse parses "VERSION SP CODE SP REASON CRLF headers" from p.
func ParseResponse(p *datum.Datum) *Response {
	r := &Response{}
	r.version = datum.UpToDelim(p, ' ')
	p.Skip(1)
	r.code = datum.UpToDelim(p, ' ')
	p.Skip(1)
	r.reason = datum.UpToDelim(p, '\r')
	p.Skip(2)
	r.headers.Parse(p)
	return r
}

// IsNotEmpty reports whether a status code was found.
func (r *Response) IsNotEmpty() bool { return r.code.IsNotEmpty() }

func (r *Response) Version() []byte    { return r.version.Bytes() }
func (r *Response) StatusCode() []byte { return r.code.Bytes() }
func (r *Response) Reason() []byte     { return r.reason.Bytes() }
func (r *Response) Headers() *Headers  { return &r.headers }

// Server returns the Server header value.
func (r *Response) Server() ([]byte, bool) { return r.headers.Lookup("server") }

// WriteJSON writes {"http":{"response":{...}}}. Nothing is written for an
// empty response.
func (r *Response) WriteJSON(w emitter.Writer, metadata bool) {
	if !r.IsNotEmpty() {
		return
	}
	o := w.Object("http").Object("response")
	o.JSONString("version", r.version.Bytes())
	o.JSONString("status_code", r.code.Bytes())
	o.JSONString("status_reason", r.reason.Bytes())
	r.headers.WriteMatchingNames(o, responseFields)
	if metadata {
		o.Bool("headers_complete", r.headers.Complete)
	}
}

// Fingerprint returns "(version)(code)(reason)((header)...)".
func (r *Response) Fingerprint() string {
	if !r.IsNotEmpty() {
		return ""
	}
	var b strings.Builder
	for _, f := range [][]byte{r.version.Bytes(), r.code.Bytes(), r.reason.Bytes()} {
		b.WriteByte('(')
		b.WriteString(hex.EncodeToString(f))
		b.WriteByte(')')
	}
	b.WriteByte('(')
	r.headers.Fingerprint(&b, responseKeywords)
	b.WriteByte(')')
	return b.String()
}
