package file

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/wirefp/internal/core"
)

var testFrames = [][]byte{
	{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x08, 0x00, 0x45},
	{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x86, 0xdd, 0x60, 0x00},
}

func captureInfo(i int, n int) gopacket.CaptureInfo {
	return gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000+int64(i), 0).UTC(),
		CaptureLength: n,
		Length:        n + 10,
	}
}

func writePcap(t *testing.T, lt layers.LinkType) string {
	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, lt))
	for i, frame := range testFrames {
		require.NoError(t, w.WritePacket(captureInfo(i, len(frame)), frame))
	}
	return path
}

func readAll(t *testing.T, s *Source) []core.RawPacket {
	var pkts []core.RawPacket
	for {
		pkt, err := s.ReadPacket()
		if err == io.EOF {
			return pkts
		}
		require.NoError(t, err)
		pkts = append(pkts, pkt)
	}
}

func TestReadPcap(t *testing.T) {
	s, err := Open(writePcap(t, layers.LinkTypeEthernet))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, core.LinkTypeEthernet, s.LinkType())
	pkts := readAll(t, s)
	require.Len(t, pkts, len(testFrames))
	for i, pkt := range pkts {
		assert.Equal(t, testFrames[i], pkt.Data)
		assert.Equal(t, core.LinkTypeEthernet, pkt.LinkType)
		assert.Equal(t, uint32(len(testFrames[i])), pkt.CaptureLen)
		assert.Equal(t, uint32(len(testFrames[i])+10), pkt.OrigLen)
		assert.True(t, captureInfo(i, 0).Timestamp.Equal(pkt.Timestamp))
	}
}

func TestReadPcapRawLinkType(t *testing.T) {
	s, err := Open(writePcap(t, layers.LinkTypeRaw))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, core.LinkTypeRaw, s.LinkType())
	pkt, err := s.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, core.LinkTypeRaw, pkt.LinkType)
}

func TestReadPcapng(t *testing.T) {
	var buf bytes.Buffer
	w, err := pcapgo.NewNgWriter(&buf, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for i, frame := range testFrames {
		require.NoError(t, w.WritePacket(captureInfo(i, len(frame)), frame))
	}
	require.NoError(t, w.Flush())

	s, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Empty(t, s.Path())
	assert.Equal(t, core.LinkTypeEthernet, s.LinkType())

	pkts := readAll(t, s)
	require.Len(t, pkts, len(testFrames))
	assert.Equal(t, testFrames[1], pkts[1].Data)
	assert.Equal(t, core.LinkTypeEthernet, pkts[1].LinkType)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pcap"))
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader([]byte{0x01}))
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader(bytes.Repeat([]byte{0x42}, 64)))
	assert.Error(t, err)
}

func TestReadAfterClose(t *testing.T) {
	s, err := Open(writePcap(t, layers.LinkTypeEthernet))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.ReadPacket()
	assert.ErrorIs(t, err, core.ErrSourceClosed)
}
