// Package decoder implements L2-L4 protocol stack decoding.
package decoder

import (
	"fmt"

	"firestige.xyz/wirefp/internal/core"
)

const defaultMaxIPv6Extensions = 8

// Decoder decodes raw packets into structured format.
type Decoder interface {
	Decode(raw core.RawPacket) (core.DecodedPacket, error)
}

// Config controls decoding limits.
type Config struct {
	// MaxIPv6Extensions bounds the walked extension header chain. Zero
	// selects the default of 8.
	MaxIPv6Extensions int
}

// StandardDecoder decodes Ethernet, Linux SLL, BSD loopback and raw IP
// frames down to the TCP or UDP payload. It holds no mutable state and is
// safe for concurrent use.
type StandardDecoder struct {
	maxExt int
}

// NewStandardDecoder creates a decoder.
func NewStandardDecoder(cfg Config) *StandardDecoder {
	maxExt := cfg.MaxIPv6Extensions
	if maxExt <= 0 {
		maxExt = defaultMaxIPv6Extensions
	}
	return &StandardDecoder{maxExt: maxExt}
}

// Decode decodes raw. The returned payload aliases raw.Data.
func (d *StandardDecoder) Decode(raw core.RawPacket) (core.DecodedPacket, error) {
	out := core.DecodedPacket{
		Timestamp:  raw.Timestamp,
		LinkType:   raw.LinkType,
		CaptureLen: raw.CaptureLen,
		OrigLen:    raw.OrigLen,
	}

	var (
		network []byte
		err     error
	)
	switch raw.LinkType {
	case core.LinkTypeEthernet:
		out.Ethernet, network, err = decodeEthernet(raw.Data)
		if err == nil {
			err = checkEtherType(out.Ethernet.EtherType)
		}
	case core.LinkTypeLinuxSLL:
		var etherType uint16
		etherType, network, err = decodeLinuxSLL(raw.Data)
		if err == nil {
			err = checkEtherType(etherType)
		}
	case core.LinkTypeNull:
		network, err = decodeLoopback(raw.Data)
	case core.LinkTypeRaw, core.LinkTypeIPv4, core.LinkTypeIPv6:
		network = raw.Data
	default:
		return out, fmt.Errorf("decode %v: %w", raw.LinkType, core.ErrUnsupportedLinkType)
	}
	if err != nil {
		return out, err
	}

	var transport []byte
	out.IP, transport, out.Fragment, err = decodeIP(network, d.maxExt)
	if err != nil {
		return out, err
	}
	if out.Fragment && transport == nil {
		return out, nil
	}

	out.Transport, out.Payload, err = decodeTransport(transport, out.IP.Protocol)
	if err != nil {
		return out, err
	}
	return out, nil
}

func checkEtherType(t uint16) error {
	if t != etherTypeIPv4 && t != etherTypeIPv6 {
		return fmt.Errorf("ethertype 0x%04x: %w", t, core.ErrUnsupportedProto)
	}
	return nil
}
