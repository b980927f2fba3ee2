// Package file reads captured packets from pcap and pcapng files.
package file

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/wirefp/internal/core"
)

// pcapng section header block type
const ngMagic = 0x0a0d0d0a

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source reads packets sequentially from a capture file.
type Source struct {
	path string
	f    *os.File
	r    packetReader
	ng   *pcapgo.NgReader
}

// Open opens a pcap or pcapng file. The format is chosen by the file magic.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}
	s, err := newSource(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.f = f
	return s, nil
}

// NewReader reads a capture from r.
func NewReader(r io.Reader) (*Source, error) {
	return newSource("", r)
}

func newSource(path string, r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture header %s: %w", path, err)
	}
	s := &Source{path: path}
	if binary.LittleEndian.Uint32(magic) == ngMagic {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to read pcapng %s: %w", path, err)
		}
		s.r, s.ng = ng, ng
		return s, nil
	}
	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcap %s: %w", path, err)
	}
	s.r = pr
	return s, nil
}

// ReadPacket returns the next packet, or io.EOF at the end of the file.
// Each packet owns its data.
func (s *Source) ReadPacket() (core.RawPacket, error) {
	if s.r == nil {
		return core.RawPacket{}, core.ErrSourceClosed
	}
	data, ci, err := s.r.ReadPacketData()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.RawPacket{}, io.EOF
		}
		return core.RawPacket{}, fmt.Errorf("failed to read packet: %w", err)
	}
	return core.RawPacket{
		Data:       data,
		Timestamp:  ci.Timestamp,
		CaptureLen: uint32(ci.CaptureLength),
		OrigLen:    uint32(ci.Length),
		LinkType:   s.linkType(ci.InterfaceIndex),
	}, nil
}

func (s *Source) linkType(iface int) core.LinkType {
	if s.ng != nil {
		if intf, err := s.ng.Interface(iface); err == nil {
			return core.LinkType(intf.LinkType)
		}
	}
	return core.LinkType(s.r.LinkType())
}

// LinkType returns the link type of the file, or of the first interface of
// a pcapng file.
func (s *Source) LinkType() core.LinkType {
	if s.r == nil {
		return core.LinkTypeEthernet
	}
	return core.LinkType(s.r.LinkType())
}

// Path returns the file name, empty for NewReader sources.
func (s *Source) Path() string { return s.path }

// Close releases the file. Further reads return core.ErrSourceClosed.
func (s *Source) Close() error {
	s.r, s.ng = nil, nil
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
