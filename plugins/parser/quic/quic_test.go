package quic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

var initial = []byte{
	0xc3,                   // long header, initial
	0x00, 0x00, 0x00, 0x01, // version 1
	0x08, 0x83, 0x94, 0xc8, 0xf0, 0x3e, 0x51, 0x57, 0x08,
	0x00,
	0x00, 0x41, 0x03, // token length, length
}

func TestParseLongHeader(t *testing.T) {
	d := datum.New(initial)
	h := ParseLongHeader(&d)
	require.True(t, h.IsNotEmpty())
	assert.Equal(t, uint32(1), h.Version())
	assert.Equal(t, uint8(0), h.PacketType())
	assert.Equal(t, []byte{0x83, 0x94, 0xc8, 0xf0, 0x3e, 0x51, 0x57, 0x08}, h.DestinationConnectionID())
	assert.Empty(t, h.SourceConnectionID())
	assert.Equal(t, 3, d.Length())

	rec := emitter.NewRecord()
	h.WriteJSON(rec, false)
	assert.JSONEq(t, `{"quic":{"version":"00000001","dcid":"8394c8f03e515708","scid":""}}`, rec.JSON())
}

func TestParseLongHeaderRejects(t *testing.T) {
	for n := 0; n < 15; n++ {
		d := datum.New(initial[:n])
		assert.False(t, ParseLongHeader(&d).IsNotEmpty(), "prefix %d", n)
	}

	long := append([]byte{0xc0, 0, 0, 0, 1, 21}, make([]byte, 30)...)
	d := datum.New(long)
	assert.False(t, ParseLongHeader(&d).IsNotEmpty())

	short := []byte{0x40, 0, 0, 0, 1, 0, 0}
	d = datum.New(short)
	h := ParseLongHeader(&d)
	assert.False(t, h.IsNotEmpty())
	rec := emitter.NewRecord()
	h.WriteJSON(rec, true)
	assert.True(t, rec.IsEmpty())
}
