package analysis

import (
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/emitter"
	"firestige.xyz/wirefp/plugins/parser/dhcp"
	"firestige.xyz/wirefp/plugins/parser/dns"
	"firestige.xyz/wirefp/plugins/parser/http"
	"firestige.xyz/wirefp/plugins/parser/mysql"
	"firestige.xyz/wirefp/plugins/parser/quic"
	"firestige.xyz/wirefp/plugins/parser/tls"
	"firestige.xyz/wirefp/plugins/parser/tofsee"
	"firestige.xyz/wirefp/plugins/parser/wireguard"
)

// Kind tags the variant held by a Record.
type Kind uint8

const (
	KindNone Kind = iota
	KindTLSClientHello
	KindTLSServerHello
	KindDTLSClientHello
	KindDTLSServerHello
	KindHTTPRequest
	KindHTTPResponse
	KindMySQLGreeting
	KindTofsee
	KindDNS
	KindDHCP
	KindQUIC
	KindWireGuard
)

func (k Kind) String() string {
	switch k {
	case KindTLSClientHello:
		return core.LabelTLS
	case KindTLSServerHello:
		return core.LabelTLSServer
	case KindDTLSClientHello:
		return core.LabelDTLS
	case KindDTLSServerHello:
		return core.LabelDTLSServer
	case KindHTTPRequest:
		return core.LabelHTTP
	case KindHTTPResponse:
		return core.LabelHTTPServer
	case KindMySQLGreeting:
		return core.LabelMySQLServer
	case KindTofsee:
		return core.LabelTofsee
	case KindDNS:
		return core.LabelDNS
	case KindDHCP:
		return core.LabelDHCP
	case KindQUIC:
		return core.LabelQUIC
	case KindWireGuard:
		return core.LabelWireGuard
	}
	return core.LabelUnknown
}

// Record is a closed union over the protocol records. Exactly the field
// matching Kind is set; KindNone holds nothing.
type Record struct {
	Kind Kind

	ClientHello   *tls.ClientHello // TLS and DTLS
	ServerHello   *tls.ServerHello // TLS and DTLS
	HTTPRequest   *http.Request
	HTTPResponse  *http.Response
	MySQLGreeting *mysql.ServerGreeting
	Tofsee        *tofsee.InitialMessage
	DNS           *dns.Message
	DHCP          *dhcp.Message
	QUIC          *quic.LongHeader
	WireGuard     *wireguard.HandshakeInitiation
}

// IsNotEmpty reports whether the record holds a valid parse.
func (r *Record) IsNotEmpty() bool {
	switch r.Kind {
	case KindTLSClientHello, KindDTLSClientHello:
		return r.ClientHello.IsNotEmpty()
	case KindTLSServerHello, KindDTLSServerHello:
		return r.ServerHello.IsNotEmpty()
	case KindHTTPRequest:
		return r.HTTPRequest.IsNotEmpty()
	case KindHTTPResponse:
		return r.HTTPResponse.IsNotEmpty()
	case KindMySQLGreeting:
		return r.MySQLGreeting.IsNotEmpty()
	case KindTofsee:
		return r.Tofsee.IsNotEmpty()
	case KindDNS:
		return r.DNS.IsNotEmpty()
	case KindDHCP:
		return r.DHCP.IsNotEmpty()
	case KindQUIC:
		return r.QUIC.IsNotEmpty()
	case KindWireGuard:
		return r.WireGuard.IsNotEmpty()
	}
	return false
}

// WriteJSON writes the protocol record. Invalid records write nothing.
func (r *Record) WriteJSON(w emitter.Writer, metadata bool) {
	switch r.Kind {
	case KindTLSClientHello, KindDTLSClientHello:
		r.ClientHello.WriteJSON(w, metadata)
	case KindTLSServerHello, KindDTLSServerHello:
		r.ServerHello.WriteJSON(w, metadata)
	case KindHTTPRequest:
		r.HTTPRequest.WriteJSON(w, metadata)
	case KindHTTPResponse:
		r.HTTPResponse.WriteJSON(w, metadata)
	case KindMySQLGreeting:
		r.MySQLGreeting.WriteJSON(w, metadata)
	case KindTofsee:
		r.Tofsee.WriteJSON(w, metadata)
	case KindDNS:
		r.DNS.WriteJSON(w, metadata)
	case KindDHCP:
		r.DHCP.WriteJSON(w, metadata)
	case KindQUIC:
		r.QUIC.WriteJSON(w, metadata)
	case KindWireGuard:
		r.WireGuard.WriteJSON(w, metadata)
	}
}

// Fingerprint returns the fingerprint type and its normalized string. Kinds
// without a fingerprint return FingerprintTypeUnknown and "".
func (r *Record) Fingerprint() (FingerprintType, string) {
	if !r.IsNotEmpty() {
		return FingerprintTypeUnknown, ""
	}
	switch r.Kind {
	case KindTLSClientHello:
		return FingerprintTypeTLS, r.ClientHello.Fingerprint()
	case KindDTLSClientHello:
		return FingerprintTypeDTLS, r.ClientHello.Fingerprint()
	case KindTLSServerHello:
		return FingerprintTypeTLSServer, r.ServerHello.Fingerprint()
	case KindDTLSServerHello:
		return FingerprintTypeDTLSServer, r.ServerHello.Fingerprint()
	case KindHTTPRequest:
		return FingerprintTypeHTTP, r.HTTPRequest.Fingerprint()
	case KindHTTPResponse:
		return FingerprintTypeHTTPServer, r.HTTPResponse.Fingerprint()
	case KindDHCP:
		return FingerprintTypeDHCP, r.DHCP.Fingerprint()
	}
	return FingerprintTypeUnknown, ""
}

// ServerName returns the TLS SNI or the HTTP Host header.
func (r *Record) ServerName() ([]byte, bool) {
	switch r.Kind {
	case KindTLSClientHello, KindDTLSClientHello:
		return r.ClientHello.ServerName()
	case KindHTTPRequest:
		return r.HTTPRequest.Host()
	}
	return nil, false
}

// ALPNs returns the offered or selected application protocols.
func (r *Record) ALPNs() [][]byte {
	switch r.Kind {
	case KindTLSClientHello, KindDTLSClientHello:
		return r.ClientHello.ALPNs()
	case KindTLSServerHello, KindDTLSServerHello:
		if p, ok := r.ServerHello.ALPN(); ok {
			return [][]byte{p}
		}
	}
	return nil
}

// UserAgent returns the HTTP User-Agent header of a request.
func (r *Record) UserAgent() ([]byte, bool) {
	if r.Kind == KindHTTPRequest {
		return r.HTTPRequest.UserAgent()
	}
	return nil, false
}
