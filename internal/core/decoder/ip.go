package decoder

import (
	"net/netip"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/datum"
)

const (
	ipv4HeaderMinLen = 20
	ipv6HeaderLen    = 40

	// IPv6 extension header next-header values
	ipv6HopByHop    = 0
	ipv6Routing     = 43
	ipv6Fragment    = 44
	ipv6DestOptions = 60
)

// decodeIP decodes an IPv4 or IPv6 header. The returned payload is trimmed
// to the length the header declares, dropping link layer padding. For a
// non-first fragment the payload is nil and fragment is true.
func decodeIP(data []byte, maxExt int) (ip core.IPHeader, payload []byte, fragment bool, err error) {
	if len(data) < 1 {
		return core.IPHeader{}, nil, false, core.ErrPacketTooShort
	}

	switch data[0] >> 4 {
	case 4:
		return decodeIPv4(data)
	case 6:
		return decodeIPv6(data, maxExt)
	default:
		return core.IPHeader{}, nil, false, core.ErrUnsupportedProto
	}
}

// decodeIPv4 decodes IPv4 header.
func decodeIPv4(data []byte) (core.IPHeader, []byte, bool, error) {
	d := datum.New(data)
	verIHL := datum.Uint8(&d)
	d.Skip(1) // DSCP, ECN
	totalLen := datum.Uint16(&d, datum.BigEndian)
	d.Skip(2) // Identification
	flagsOffset := datum.Uint16(&d, datum.BigEndian)
	ttl := datum.Uint8(&d)
	proto := datum.Uint8(&d)
	d.Skip(2) // Checksum
	src := datum.Sub(&d, 4)
	dst := datum.Sub(&d, 4)
	if d.IsNull() {
		return core.IPHeader{}, nil, false, core.ErrPacketTooShort
	}

	headerLen := int(verIHL&0x0F) * 4
	if headerLen < ipv4HeaderMinLen || int(totalLen) < headerLen {
		return core.IPHeader{}, nil, false, core.ErrPacketTooShort
	}
	d.Skip(headerLen - ipv4HeaderMinLen) // options
	if d.IsNull() {
		return core.IPHeader{}, nil, false, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version:  4,
		Protocol: proto,
		TTL:      ttl,
		TotalLen: totalLen,
		SrcIP:    netip.AddrFrom4([4]byte(src.Bytes())),
		DstIP:    netip.AddrFrom4([4]byte(dst.Bytes())),
	}

	// A capture may be shorter than the datagram, never longer.
	if extra := d.Length() - (int(totalLen) - headerLen); extra > 0 {
		d.Trim(extra)
	}

	moreFragments := flagsOffset&0x2000 != 0
	fragmentOffset := flagsOffset & 0x1FFF
	if fragmentOffset != 0 {
		return ip, nil, true, nil
	}
	return ip, d.Bytes(), moreFragments, nil
}

// decodeIPv6 decodes IPv6 header and walks up to maxExt extension headers.
func decodeIPv6(data []byte, maxExt int) (core.IPHeader, []byte, bool, error) {
	d := datum.New(data)
	d.Skip(4) // Version, traffic class, flow label
	payloadLen := datum.Uint16(&d, datum.BigEndian)
	next := datum.Uint8(&d)
	hopLimit := datum.Uint8(&d)
	src := datum.Sub(&d, 16)
	dst := datum.Sub(&d, 16)
	if d.IsNull() {
		return core.IPHeader{}, nil, false, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version:  6,
		TTL:      hopLimit,
		TotalLen: ipv6HeaderLen + payloadLen,
		SrcIP:    netip.AddrFrom16([16]byte(src.Bytes())),
		DstIP:    netip.AddrFrom16([16]byte(dst.Bytes())),
	}

	if extra := d.Length() - int(payloadLen); extra > 0 {
		d.Trim(extra)
	}

	fragment := false
walk:
	for i := 0; i < maxExt; i++ {
		switch next {
		case ipv6HopByHop, ipv6Routing, ipv6DestOptions:
			next = datum.Uint8(&d)
			extLen := datum.Uint8(&d)
			d.Skip(int(extLen)*8 + 6)
		case ipv6Fragment:
			next = datum.Uint8(&d)
			d.Skip(1)
			offset := datum.Uint16(&d, datum.BigEndian)
			d.Skip(4) // Identification
			fragment = true
			if offset&0xFFF8 != 0 {
				ip.Protocol = next
				return ip, nil, true, nil
			}
		default:
			break walk
		}
		if d.IsNull() {
			return ip, nil, false, core.ErrPacketTooShort
		}
	}
	ip.Protocol = next
	return ip, d.Bytes(), fragment, nil
}
