package decoder

import (
	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/datum"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = 20
)

// decodeTransport decodes transport layer header (TCP/UDP).
// Returns TransportHeader and remaining payload.
func decodeTransport(data []byte, protocol uint8) (core.TransportHeader, []byte, error) {
	switch protocol {
	case core.ProtocolTCP:
		return decodeTCP(data)
	case core.ProtocolUDP:
		return decodeUDP(data)
	default:
		return core.TransportHeader{Protocol: protocol}, nil, core.ErrUnsupportedProto
	}
}

// decodeUDP decodes UDP header. The payload is trimmed to the UDP length
// field when the capture holds more.
func decodeUDP(data []byte) (core.TransportHeader, []byte, error) {
	d := datum.New(data)
	transport := core.TransportHeader{Protocol: core.ProtocolUDP}
	transport.SrcPort = datum.Uint16(&d, datum.BigEndian)
	transport.DstPort = datum.Uint16(&d, datum.BigEndian)
	length := datum.Uint16(&d, datum.BigEndian)
	d.Skip(2) // Checksum
	if d.IsNull() {
		return core.TransportHeader{}, nil, core.ErrPacketTooShort
	}

	if length >= udpHeaderLen {
		if extra := d.Length() - int(length-udpHeaderLen); extra > 0 {
			d.Trim(extra)
		}
	}
	return transport, d.Bytes(), nil
}

// decodeTCP decodes TCP header.
func decodeTCP(data []byte) (core.TransportHeader, []byte, error) {
	d := datum.New(data)
	transport := core.TransportHeader{Protocol: core.ProtocolTCP}
	transport.SrcPort = datum.Uint16(&d, datum.BigEndian)
	transport.DstPort = datum.Uint16(&d, datum.BigEndian)
	transport.SeqNum = datum.Uint32(&d, datum.BigEndian)
	transport.AckNum = datum.Uint32(&d, datum.BigEndian)
	dataOffset := datum.Uint8(&d) >> 4
	// Flags: URG, ACK, PSH, RST, SYN, FIN
	transport.TCPFlags = datum.Uint8(&d) & 0x3F
	d.Skip(6) // Window, checksum, urgent pointer
	if d.IsNull() {
		return core.TransportHeader{}, nil, core.ErrPacketTooShort
	}

	headerLen := int(dataOffset) * 4
	if headerLen < tcpHeaderMinLen {
		return transport, nil, core.ErrPacketTooShort
	}
	d.Skip(headerLen - tcpHeaderMinLen) // options
	if d.IsNull() {
		return transport, nil, core.ErrPacketTooShort
	}
	return transport, d.Bytes(), nil
}
