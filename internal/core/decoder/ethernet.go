package decoder

import (
	"encoding/binary"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/datum"
)

const (
	// EtherType values
	etherTypeIPv4 = 0x0800
	etherTypeIPv6 = 0x86DD
	etherTypeVLAN = 0x8100
	etherTypeQinQ = 0x88A8

	linuxSLLHeaderLen = 16

	// BSD loopback address families, in host byte order of the capturing
	// machine.
	afINet        = 2
	afINet6BSD    = 24
	afINet6Darwin = 30
	afINet6Linux  = 10
	afINet6Free   = 28
)

// decodeEthernet decodes Ethernet frame header (including VLAN tags).
// Returns EthernetHeader and remaining payload.
func decodeEthernet(data []byte) (core.EthernetHeader, []byte, error) {
	d := datum.New(data)
	dst := datum.Sub(&d, 6)
	src := datum.Sub(&d, 6)
	etherType := datum.Uint16(&d, datum.BigEndian)
	if d.IsNull() {
		return core.EthernetHeader{}, nil, core.ErrPacketTooShort
	}

	eth := core.EthernetHeader{}
	copy(eth.DstMAC[:], dst.Bytes())
	copy(eth.SrcMAC[:], src.Bytes())

	// QinQ nests tags; each carries TCI then the next EtherType.
	for etherType == etherTypeVLAN || etherType == etherTypeQinQ {
		tci := datum.Uint16(&d, datum.BigEndian)
		etherType = datum.Uint16(&d, datum.BigEndian)
		if d.IsNull() {
			return eth, nil, core.ErrPacketTooShort
		}
		eth.VLANs = append(eth.VLANs, tci&0x0FFF)
	}

	eth.EtherType = etherType
	return eth, d.Bytes(), nil
}

// decodeLinuxSLL decodes a Linux cooked capture header and returns the
// protocol type and payload.
func decodeLinuxSLL(data []byte) (uint16, []byte, error) {
	d := datum.New(data)
	d.Skip(linuxSLLHeaderLen - 2)
	proto := datum.Uint16(&d, datum.BigEndian)
	if d.IsNull() {
		return 0, nil, core.ErrPacketTooShort
	}
	return proto, d.Bytes(), nil
}

// decodeLoopback decodes the 4-byte address family header of BSD loopback
// captures. The family is written in the capturing host's byte order, so
// both orders are tried.
func decodeLoopback(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, core.ErrPacketTooShort
	}
	family := binary.LittleEndian.Uint32(data)
	if family > 0xffff {
		family = binary.BigEndian.Uint32(data)
	}
	switch family {
	case afINet, afINet6BSD, afINet6Darwin, afINet6Free, afINet6Linux:
		return data[4:], nil
	}
	return nil, core.ErrUnsupportedProto
}
