// Package core defines core types with zero external dependencies.
package core

import (
	"net/netip"
	"strconv"
)

// IP protocol numbers.
const (
	ProtocolTCP uint8 = 6
	ProtocolUDP uint8 = 17
)

// LinkType is a pcap LINKTYPE_ value.
type LinkType uint32

const (
	LinkTypeNull     LinkType = 0
	LinkTypeEthernet LinkType = 1
	LinkTypeRaw      LinkType = 101
	LinkTypeLinuxSLL LinkType = 113
	LinkTypeIPv4     LinkType = 228
	LinkTypeIPv6     LinkType = 229
)

func (l LinkType) String() string {
	switch l {
	case LinkTypeNull:
		return "null"
	case LinkTypeEthernet:
		return "ethernet"
	case LinkTypeRaw:
		return "raw"
	case LinkTypeLinuxSLL:
		return "linux_sll"
	case LinkTypeIPv4:
		return "ipv4"
	case LinkTypeIPv6:
		return "ipv6"
	}
	return "linktype(" + strconv.FormatUint(uint64(l), 10) + ")"
}

// EthernetHeader represents L2 Ethernet frame header.
type EthernetHeader struct {
	SrcMAC    [6]byte
	DstMAC    [6]byte
	EtherType uint16   // 0x0800=IPv4, 0x86DD=IPv6, 0x8100=VLAN
	VLANs     []uint16 // 0~2 VLAN IDs (QinQ scenarios have 2)
}

// IPHeader represents L3 IP header (IPv4/IPv6).
type IPHeader struct {
	Version  uint8
	SrcIP    netip.Addr
	DstIP    netip.Addr
	Protocol uint8 // TCP=6, UDP=17
	TTL      uint8
	TotalLen uint16
}

// TransportHeader represents L4 transport layer header (TCP/UDP).
type TransportHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8
	// TCP-specific fields (only populated for TCP)
	TCPFlags uint8
	SeqNum   uint32
	AckNum   uint32
}

// TCP flag bits.
const (
	TCPFlagFIN uint8 = 1 << iota
	TCPFlagSYN
	TCPFlagRST
	TCPFlagPSH
	TCPFlagACK
	TCPFlagURG
)
