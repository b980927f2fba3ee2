package analysis

import (
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/plugins/parser/dhcp"
	"firestige.xyz/wirefp/plugins/parser/dns"
	"firestige.xyz/wirefp/plugins/parser/http"
	"firestige.xyz/wirefp/plugins/parser/mysql"
	"firestige.xyz/wirefp/plugins/parser/quic"
	"firestige.xyz/wirefp/plugins/parser/tls"
	"firestige.xyz/wirefp/plugins/parser/tofsee"
	"firestige.xyz/wirefp/plugins/parser/udp"
	"firestige.xyz/wirefp/plugins/parser/wireguard"
)

// TCPMessageType is the protocol a TCP payload was classified as.
type TCPMessageType uint8

const (
	TCPUnknown TCPMessageType = iota
	TCPTLSClientHello
	TCPTLSServerHello
	TCPHTTPResponse
	TCPHTTPRequest
	TCPMySQLGreeting
)

func (t TCPMessageType) String() string {
	switch t {
	case TCPTLSClientHello:
		return "tls_client_hello"
	case TCPTLSServerHello:
		return "tls_server_hello"
	case TCPHTTPResponse:
		return "http_response"
	case TCPHTTPRequest:
		return "http_request"
	case TCPMySQLGreeting:
		return "mysql_server_greeting"
	}
	return "unknown"
}

var tcpDispatcher = newTCPDispatcher()

func newTCPDispatcher() *datum.Dispatcher[TCPMessageType] {
	rules := []datum.Rule[TCPMessageType]{
		{Matcher: tls.ClientHelloMatcher, Tag: TCPTLSClientHello},
		{Matcher: tls.ServerHelloMatcher, Tag: TCPTLSServerHello},
		{Matcher: http.ResponseMatcher, Tag: TCPHTTPResponse},
	}
	for _, m := range http.RequestMatchers {
		rules = append(rules, datum.Rule[TCPMessageType]{Matcher: m, Tag: TCPHTTPRequest})
	}
	rules = append(rules, datum.Rule[TCPMessageType]{Matcher: mysql.Matcher, Tag: TCPMySQLGreeting})
	return datum.NewDispatcher(TCPUnknown, rules...)
}

// ClassifyTCP returns the type of the first rule matching payload.
func ClassifyTCP(payload []byte) TCPMessageType {
	return tcpDispatcher.Classify(payload)
}

// ParseTCP classifies and parses a TCP payload. A payload no matcher claims
// is tried as a Tofsee initial message when it has exactly that length. The
// returned record is KindNone when nothing parsed.
func ParseTCP(payload []byte, protos ProtocolConfig) Record {
	d := datum.New(payload)
	var r Record
	switch ClassifyTCP(payload) {
	case TCPTLSClientHello:
		if protos.TLS {
			r = Record{Kind: KindTLSClientHello, ClientHello: tls.ParseClientHello(&d)}
		}
	case TCPTLSServerHello:
		if protos.TLS {
			r = Record{Kind: KindTLSServerHello, ServerHello: tls.ParseServerHello(&d)}
		}
	case TCPHTTPResponse:
		if protos.HTTP {
			r = Record{Kind: KindHTTPResponse, HTTPResponse: http.ParseResponse(&d)}
		}
	case TCPHTTPRequest:
		if protos.HTTP {
			r = Record{Kind: KindHTTPRequest, HTTPRequest: http.ParseRequest(&d)}
		}
	case TCPMySQLGreeting:
		if protos.MySQL {
			r = Record{Kind: KindMySQLGreeting, MySQLGreeting: mysql.ParseServerGreeting(&d)}
		}
	default:
		if protos.Tofsee && len(payload) == tofsee.MessageLength {
			r = Record{Kind: KindTofsee, Tofsee: tofsee.ParseInitialMessage(&d)}
		}
	}
	return checked(r)
}

// ParseUDP classifies and parses a UDP payload.
func ParseUDP(payload []byte, protos ProtocolConfig) Record {
	d := datum.New(payload)
	var r Record
	switch udp.Classify(payload) {
	case udp.DHCP:
		if protos.DHCP {
			r = Record{Kind: KindDHCP, DHCP: dhcp.ParseMessage(&d)}
		}
	case udp.DTLSClientHello:
		if protos.DTLS {
			r = Record{Kind: KindDTLSClientHello, ClientHello: tls.ParseDTLSClientHello(&d)}
		}
	case udp.DTLSServerHello:
		if protos.DTLS {
			r = Record{Kind: KindDTLSServerHello, ServerHello: tls.ParseDTLSServerHello(&d)}
		}
	case udp.DNS:
		if protos.DNS {
			r = Record{Kind: KindDNS, DNS: dns.ParseMessage(&d)}
		}
	case udp.WireGuard:
		if protos.WireGuard {
			r = Record{Kind: KindWireGuard, WireGuard: wireguard.ParseHandshakeInitiation(&d)}
		}
	case udp.QUIC:
		if protos.QUIC {
			r = Record{Kind: KindQUIC, QUIC: quic.ParseLongHeader(&d)}
		}
	}
	return checked(r)
}

// checked collapses an invalid parse to KindNone and counts the rejection.
func checked(r Record) Record {
	if r.Kind == KindNone || r.IsNotEmpty() {
		return r
	}
	metrics.ParserRejectionsTotal.WithLabelValues(r.Kind.String()).Inc()
	return Record{}
}
