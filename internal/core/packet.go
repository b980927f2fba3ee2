package core

import "time"

// RawPacket is a captured frame. Data is owned by the packet and is never
// copied by the decoder.
type RawPacket struct {
	Data       []byte    // Raw frame data
	Timestamp  time.Time // Capture timestamp
	CaptureLen uint32    // Captured length
	OrigLen    uint32    // Original frame length
	LinkType   LinkType  // Link layer of Data
}

// DecodedPacket is the result of L2-L4 decoding.
type DecodedPacket struct {
	Timestamp  time.Time
	LinkType   LinkType
	Ethernet   EthernetHeader // zero unless LinkType carries Ethernet
	IP         IPHeader
	Transport  TransportHeader
	Payload    []byte // Application layer payload, zero-copy slice of RawPacket.Data
	CaptureLen uint32
	OrigLen    uint32
	Fragment   bool // IPv4 fragment; Transport and Payload are empty
}

// IsTCP reports whether the packet carries a TCP segment.
func (p *DecodedPacket) IsTCP() bool { return p.Transport.Protocol == ProtocolTCP }

// IsUDP reports whether the packet carries a UDP datagram.
func (p *DecodedPacket) IsUDP() bool { return p.Transport.Protocol == ProtocolUDP }
