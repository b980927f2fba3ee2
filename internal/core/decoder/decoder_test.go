package decoder

import (
	"encoding/binary"
	"errors"
	"net/netip"
	"testing"
	"time"

	"firestige.xyz/wirefp/internal/core"
)

var (
	testSrcMAC = []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	testDstMAC = []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
)

func ethernetFrame(etherType uint16, payload []byte) []byte {
	frame := append([]byte{}, testDstMAC...)
	frame = append(frame, testSrcMAC...)
	frame = binary.BigEndian.AppendUint16(frame, etherType)
	return append(frame, payload...)
}

func ipv4Packet(proto uint8, flagsOffset uint16, payload []byte) []byte {
	pkt := []byte{0x45, 0x00, 0, 0, 0x12, 0x34, 0, 0, 0x40, proto, 0x00, 0x00,
		192, 168, 1, 1,
		192, 168, 1, 2,
	}
	binary.BigEndian.PutUint16(pkt[2:], uint16(20+len(payload)))
	binary.BigEndian.PutUint16(pkt[6:], flagsOffset)
	return append(pkt, payload...)
}

func ipv6Packet(next uint8, payload []byte) []byte {
	pkt := make([]byte, 40)
	pkt[0] = 0x60
	binary.BigEndian.PutUint16(pkt[4:], uint16(len(payload)))
	pkt[6] = next
	pkt[7] = 64
	copy(pkt[8:], netip.MustParseAddr("2001:db8::1").AsSlice())
	copy(pkt[24:], netip.MustParseAddr("2001:db8::2").AsSlice())
	return append(pkt, payload...)
}

func udpDatagram(src, dst uint16, payload []byte) []byte {
	seg := make([]byte, 8)
	binary.BigEndian.PutUint16(seg[0:], src)
	binary.BigEndian.PutUint16(seg[2:], dst)
	binary.BigEndian.PutUint16(seg[4:], uint16(8+len(payload)))
	return append(seg, payload...)
}

func tcpSegment(src, dst uint16, flags uint8, payload []byte) []byte {
	seg := make([]byte, 20)
	binary.BigEndian.PutUint16(seg[0:], src)
	binary.BigEndian.PutUint16(seg[2:], dst)
	binary.BigEndian.PutUint32(seg[4:], 1)
	binary.BigEndian.PutUint32(seg[8:], 2)
	seg[12] = 0x50
	seg[13] = flags
	return append(seg, payload...)
}

func rawPacket(lt core.LinkType, data []byte) core.RawPacket {
	return core.RawPacket{
		Data:       data,
		Timestamp:  time.Unix(1700000000, 0),
		CaptureLen: uint32(len(data)),
		OrigLen:    uint32(len(data)),
		LinkType:   lt,
	}
}

func TestStandardDecoderEthernetUDP(t *testing.T) {
	decoder := NewStandardDecoder(Config{})
	payload := []byte("hello")
	frame := ethernetFrame(etherTypeIPv4, ipv4Packet(17, 0, udpDatagram(5000, 53, payload)))

	decoded, err := decoder.Decode(rawPacket(core.LinkTypeEthernet, frame))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Ethernet.EtherType != etherTypeIPv4 {
		t.Errorf("Expected EtherType 0x0800, got 0x%04x", decoded.Ethernet.EtherType)
	}
	if decoded.IP.SrcIP != netip.MustParseAddr("192.168.1.1") {
		t.Errorf("Unexpected SrcIP %v", decoded.IP.SrcIP)
	}
	if !decoded.IsUDP() {
		t.Fatalf("Expected UDP, got protocol %d", decoded.Transport.Protocol)
	}
	if decoded.Transport.SrcPort != 5000 || decoded.Transport.DstPort != 53 {
		t.Errorf("Unexpected ports %d -> %d", decoded.Transport.SrcPort, decoded.Transport.DstPort)
	}
	if string(decoded.Payload) != "hello" {
		t.Errorf("Expected payload %q, got %q", "hello", decoded.Payload)
	}
	if decoded.LinkType != core.LinkTypeEthernet {
		t.Errorf("Expected link type ethernet, got %v", decoded.LinkType)
	}
}

func TestStandardDecoderStripsEthernetPadding(t *testing.T) {
	decoder := NewStandardDecoder(Config{})
	frame := ethernetFrame(etherTypeIPv4, ipv4Packet(6, 0, tcpSegment(40000, 3306, core.TCPFlagACK, []byte{0x01})))
	// pad to the 60 byte Ethernet minimum
	frame = append(frame, make([]byte, 60-len(frame))...)

	decoded, err := decoder.Decode(rawPacket(core.LinkTypeEthernet, frame))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded.Payload) != 1 {
		t.Errorf("Expected padding to be dropped, got payload length %d", len(decoded.Payload))
	}
}

func TestStandardDecoderLinkTypes(t *testing.T) {
	payload := tcpSegment(51000, 443, core.TCPFlagPSH|core.TCPFlagACK, []byte{0x16, 0x03, 0x01})

	sll := make([]byte, linuxSLLHeaderLen)
	binary.BigEndian.PutUint16(sll[14:], etherTypeIPv6)
	sll = append(sll, ipv6Packet(6, payload)...)

	loop := binary.LittleEndian.AppendUint32(nil, afINet)
	loop = append(loop, ipv4Packet(6, 0, payload)...)

	tests := []struct {
		name string
		lt   core.LinkType
		data []byte
		ver  uint8
	}{
		{"raw ipv4", core.LinkTypeRaw, ipv4Packet(6, 0, payload), 4},
		{"raw ipv6", core.LinkTypeIPv6, ipv6Packet(6, payload), 6},
		{"linux sll", core.LinkTypeLinuxSLL, sll, 6},
		{"loopback", core.LinkTypeNull, loop, 4},
	}

	decoder := NewStandardDecoder(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := decoder.Decode(rawPacket(tt.lt, tt.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.IP.Version != tt.ver {
				t.Errorf("Expected IP version %d, got %d", tt.ver, decoded.IP.Version)
			}
			if !decoded.IsTCP() || decoded.Transport.DstPort != 443 {
				t.Errorf("Unexpected transport %+v", decoded.Transport)
			}
			if len(decoded.Payload) != 3 || decoded.Payload[0] != 0x16 {
				t.Errorf("Unexpected payload % x", decoded.Payload)
			}
		})
	}
}

func TestStandardDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  core.RawPacket
		want error
	}{
		{"empty", rawPacket(core.LinkTypeEthernet, nil), core.ErrPacketTooShort},
		{"too short", rawPacket(core.LinkTypeEthernet, []byte{0x01, 0x02, 0x03}), core.ErrPacketTooShort},
		{"arp", rawPacket(core.LinkTypeEthernet, ethernetFrame(0x0806, make([]byte, 28))), core.ErrUnsupportedProto},
		{"icmp", rawPacket(core.LinkTypeRaw, ipv4Packet(1, 0, make([]byte, 8))), core.ErrUnsupportedProto},
		{"link type", rawPacket(core.LinkType(147), []byte{0x45}), core.ErrUnsupportedLinkType},
		{"truncated udp", rawPacket(core.LinkTypeRaw, ipv4Packet(17, 0, []byte{0x13, 0x88})), core.ErrPacketTooShort},
	}

	decoder := NewStandardDecoder(Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.Decode(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStandardDecoderFragments(t *testing.T) {
	decoder := NewStandardDecoder(Config{})

	// first fragment still carries the transport header
	first := ipv4Packet(17, 0x2000, udpDatagram(5000, 53, []byte("abc")))
	decoded, err := decoder.Decode(rawPacket(core.LinkTypeRaw, first))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.Fragment || !decoded.IsUDP() {
		t.Errorf("Expected decoded first fragment, got %+v", decoded)
	}

	later := ipv4Packet(17, 0x0010, []byte("rest of datagram"))
	decoded, err = decoder.Decode(rawPacket(core.LinkTypeRaw, later))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.Fragment || decoded.Payload != nil || decoded.Transport.Protocol != 0 {
		t.Errorf("Expected bare fragment, got %+v", decoded)
	}
}

func BenchmarkStandardDecoderDecode(b *testing.B) {
	decoder := NewStandardDecoder(Config{})
	raw := rawPacket(core.LinkTypeEthernet,
		ethernetFrame(etherTypeIPv4, ipv4Packet(17, 0, udpDatagram(5000, 5001, make([]byte, 64)))))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := decoder.Decode(raw); err != nil {
			b.Fatal(err)
		}
	}
}
