// Package udp classifies UDP payloads by their leading bytes.
package udp

import "firestige.xyz/wirefp/pkg/datum"

// MessageType is the protocol a UDP payload was classified as.
type MessageType uint8

const (
	Unknown MessageType = iota
	DHCP
	DTLSClientHello
	DTLSServerHello
	DNS
	WireGuard
	QUIC
)

func (t MessageType) String() string {
	switch t {
	case DHCP:
		return "dhcp"
	case DTLSClientHello:
		return "dtls_client_hello"
	case DTLSServerHello:
		return "dtls_server_hello"
	case DNS:
		return "dns"
	case WireGuard:
		return "wireguard"
	case QUIC:
		return "quic"
	default:
		return "unknown"
	}
}

var dtlsMask = []byte{
	0xff, 0xff, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00,
}

var dnsMask = []byte{0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0xff, 0x00}

// Rules are tried in this order; the first match wins.
var (
	DHCPMatcher = datum.NewMatcher(
		[]byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
		[]byte{0x01, 0x01, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00},
		0,
	)
	DTLSClientHelloMatcher = datum.NewMatcher(dtlsMask, []byte{
		0x16, 0xfe, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00,
	}, 0)
	DTLSServerHelloMatcher = datum.NewMatcher(dtlsMask, []byte{
		0x16, 0xfe, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00,
	}, 0)
	DNSServerMatcher = datum.NewMatcher(dnsMask,
		[]byte{0x00, 0x00, 0x81, 0x80, 0x00, 0x00, 0x00, 0x00}, 0)
	DNSClientMatcher = datum.NewMatcher(dnsMask,
		[]byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}, 0)
	WireGuardMatcher = datum.NewMatcher(
		[]byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
		[]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		0,
	)
	QUICMatcher = datum.NewMatcher(
		[]byte{0xf0, 0x00, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
		[]byte{0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		0,
	)
)

var dispatcher = datum.NewDispatcher(Unknown,
	datum.Rule[MessageType]{Matcher: DHCPMatcher, Tag: DHCP},
	datum.Rule[MessageType]{Matcher: DTLSClientHelloMatcher, Tag: DTLSClientHello},
	datum.Rule[MessageType]{Matcher: DTLSServerHelloMatcher, Tag: DTLSServerHello},
	datum.Rule[MessageType]{Matcher: DNSServerMatcher, Tag: DNS},
	datum.Rule[MessageType]{Matcher: DNSClientMatcher, Tag: DNS},
	datum.Rule[MessageType]{Matcher: WireGuardMatcher, Tag: WireGuard},
	datum.Rule[MessageType]{Matcher: QUICMatcher, Tag: QUIC},
)

// Classify returns the type of the first rule matching payload. Payloads
// shorter than eight bytes are always Unknown.
func Classify(payload []byte) MessageType {
	return dispatcher.Classify(payload)
}
