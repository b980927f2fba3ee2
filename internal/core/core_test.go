package core

import (
	"errors"
	"fmt"
	"net/netip"
	"testing"
	"time"
)

// Test zero values of core structs
func TestStructZeroValues(t *testing.T) {
	t.Run("EthernetHeader", func(t *testing.T) {
		var eth EthernetHeader
		if eth.EtherType != 0 {
			t.Errorf("expected EtherType=0, got %d", eth.EtherType)
		}
		if eth.VLANs != nil {
			t.Errorf("expected VLANs=nil, got %v", eth.VLANs)
		}
	})

	t.Run("IPHeader", func(t *testing.T) {
		var ip IPHeader
		if ip.SrcIP.IsValid() || ip.DstIP.IsValid() {
			t.Errorf("expected invalid addresses, got %v %v", ip.SrcIP, ip.DstIP)
		}
	})

	t.Run("DecodedPacket", func(t *testing.T) {
		var decoded DecodedPacket
		if decoded.Fragment {
			t.Errorf("expected Fragment=false, got true")
		}
		if decoded.IsTCP() || decoded.IsUDP() {
			t.Errorf("zero packet should be neither TCP nor UDP")
		}
		if decoded.LinkType != LinkTypeNull {
			t.Errorf("expected LinkTypeNull, got %v", decoded.LinkType)
		}
	})
}

func TestLinkTypeString(t *testing.T) {
	tests := []struct {
		lt   LinkType
		want string
	}{
		{LinkTypeEthernet, "ethernet"},
		{LinkTypeRaw, "raw"},
		{LinkTypeLinuxSLL, "linux_sll"},
		{LinkTypeIPv4, "ipv4"},
		{LinkTypeIPv6, "ipv6"},
		{LinkType(147), "linktype(147)"},
	}
	for _, tt := range tests {
		if got := tt.lt.String(); got != tt.want {
			t.Errorf("LinkType(%d).String() = %q, want %q", uint32(tt.lt), got, tt.want)
		}
	}
}

// Test sentinel errors
func TestSentinelErrors(t *testing.T) {
	t.Run("ErrorMessages", func(t *testing.T) {
		tests := []struct {
			err     error
			message string
		}{
			{ErrPacketTooShort, "wirefp: packet too short"},
			{ErrUnsupportedProto, "wirefp: unsupported protocol"},
			{ErrUnsupportedLinkType, "wirefp: unsupported link type"},
			{ErrBindFailed, "wirefp: engine bind failed"},
			{ErrSymbolNotFound, "wirefp: symbol not found"},
			{ErrEngineClosed, "wirefp: engine closed"},
			{ErrConfigInvalid, "wirefp: invalid configuration"},
			{ErrSourceClosed, "wirefp: source closed"},
			{ErrSinkClosed, "wirefp: sink closed"},
		}

		for _, tt := range tests {
			if tt.err.Error() != tt.message {
				t.Errorf("expected error message %q, got %q", tt.message, tt.err.Error())
			}
		}
	})

	t.Run("ErrorWrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("resolve wirefp_init: %w", ErrSymbolNotFound)
		if !errors.Is(wrapped, ErrSymbolNotFound) {
			t.Error("errors.Is failed for wrapped error")
		}
		if errors.Is(wrapped, ErrSymbolType) {
			t.Error("wrapped error matched the wrong sentinel")
		}
	})
}

func TestDecodedPacketTransport(t *testing.T) {
	decoded := DecodedPacket{
		Timestamp: time.Now(),
		LinkType:  LinkTypeEthernet,
		IP: IPHeader{
			Version:  4,
			SrcIP:    netip.MustParseAddr("192.168.1.1"),
			DstIP:    netip.MustParseAddr("192.168.1.2"),
			Protocol: ProtocolTCP,
		},
		Transport: TransportHeader{
			SrcPort:  51000,
			DstPort:  443,
			Protocol: ProtocolTCP,
			TCPFlags: TCPFlagPSH | TCPFlagACK,
		},
		Payload: []byte{0x16, 0x03, 0x01},
	}

	if !decoded.IsTCP() {
		t.Errorf("expected TCP packet")
	}
	if decoded.IsUDP() {
		t.Errorf("TCP packet reported as UDP")
	}
	if decoded.Transport.TCPFlags&TCPFlagSYN != 0 {
		t.Errorf("unexpected SYN flag")
	}
	if TCPFlagACK != 0x10 || TCPFlagURG != 0x20 {
		t.Errorf("TCP flag bits out of place: ack=%#x urg=%#x", TCPFlagACK, TCPFlagURG)
	}
}
