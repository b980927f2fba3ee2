package core

// Top-level keys of an emitted analysis record.
const (
	KeyFingerprints = "fingerprints"
	KeySrcIP        = "src_ip"
	KeyDstIP        = "dst_ip"
	KeySrcPort      = "src_port"
	KeyDstPort      = "dst_port"
	KeyProtocol     = "protocol"
	KeyEventStart   = "event_start"
)

// Protocol labels. Fingerprint types are written under KeyFingerprints
// with these names; every record kind uses them as its metric label.
const (
	LabelTLS         = "tls"
	LabelTLSServer   = "tls_server"
	LabelDTLS        = "dtls"
	LabelDTLSServer  = "dtls_server"
	LabelHTTP        = "http"
	LabelHTTPServer  = "http_server"
	LabelDHCP        = "dhcp"
	LabelQUIC        = "quic"
	LabelTofsee      = "tofsee"
	LabelDNS         = "dns"
	LabelWireGuard   = "wireguard"
	LabelMySQLServer = "mysql_server"
	LabelUnknown     = "unknown"
)
