package tls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

func clientHelloBody(dtls bool) []byte {
	var b cryptobyte.Builder
	b.AddUint16(0x0303)
	b.AddBytes(make([]byte, randomLen))
	b.AddUint8LengthPrefixed(func(*cryptobyte.Builder) {})
	if dtls {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes([]byte{0xaa, 0xbb}) })
	}
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16(0x0a0a)
		b.AddUint16(0x1301)
		b.AddUint16(0xc02b)
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddUint8(0) })
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16(0x0a0a)
		b.AddUint16(0)
		b.AddUint16(extServerName)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8(0)
				b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes([]byte("example.com")) })
			})
		})
		b.AddUint16(extALPN)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes([]byte("h2")) })
				b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes([]byte("http/1.1")) })
			})
		})
		b.AddUint16(extSupportedVersions)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddUint16(0x0304)
				b.AddUint16(0x0303)
			})
		})
	})
	return b.BytesOrPanic()
}

func serverHelloBody() []byte {
	var b cryptobyte.Builder
	b.AddUint16(0x0303)
	b.AddBytes(make([]byte, randomLen))
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes([]byte{1, 2, 3, 4}) })
	b.AddUint16(0x1301)
	b.AddUint8(0)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint16(extSupportedVersions)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddUint16(0x0304) })
	})
	return b.BytesOrPanic()
}

func record(msgType uint8, body []byte, dtls bool) []byte {
	var hs cryptobyte.Builder
	hs.AddUint8(msgType)
	hs.AddUint24(uint32(len(body)))
	if dtls {
		hs.AddUint16(0)
		hs.AddUint24(0)
		hs.AddUint24(uint32(len(body)))
	}
	hs.AddBytes(body)
	handshake := hs.BytesOrPanic()

	var r cryptobyte.Builder
	r.AddUint8(contentTypeHandshake)
	if dtls {
		r.AddUint16(0xfefd)
		r.AddBytes(make([]byte, 8))
	} else {
		r.AddUint16(0x0301)
	}
	r.AddUint16(uint16(len(handshake)))
	r.AddBytes(handshake)
	return r.BytesOrPanic()
}

func TestParseClientHello(t *testing.T) {
	buf := record(typeClientHello, clientHelloBody(false), false)
	require.True(t, ClientHelloMatcher.Matches(buf))

	d := datum.New(buf)
	h := ParseClientHello(&d)
	require.True(t, h.IsNotEmpty())
	assert.False(t, h.IsDTLS())
	assert.Equal(t, 0, d.Length())
	assert.Equal(t, uint16(0x0303), h.Version())
	assert.Equal(t, []uint16{0x0a0a, 0x1301, 0xc02b}, h.CipherSuites())
	assert.Len(t, h.Extensions(), 4)

	sni, ok := h.ServerName()
	require.True(t, ok)
	assert.Equal(t, "example.com", string(sni))
	assert.Equal(t, [][]byte{[]byte("h2"), []byte("http/1.1")}, h.ALPNs())
	assert.Equal(t, []uint16{0x0304, 0x0303}, h.SupportedVersions())

	want := "(0303)(0a0a1301c02b)(" +
		"(0a0a)" +
		"(0000)" +
		"(0010000e000c02683208687474702f312e31)" +
		"(002b00050403040303)" +
		")"
	assert.Equal(t, want, h.Fingerprint())

	rec := emitter.NewRecord()
	h.WriteJSON(rec, false)
	client := rec.Data()["tls"].(map[string]any)["client"].(map[string]any)
	assert.Equal(t, "example.com", client["server_name"])
	assert.Equal(t, "0303", client["version"])
	assert.Equal(t, "0a0a1301c02b", client["cipher_suites"])
	assert.Equal(t, []any{"h2", "http/1.1"}, client["application_layer_protocol_negotiation"])
	assert.NotContains(t, client, "extensions")
}

func TestParseDTLSClientHello(t *testing.T) {
	buf := record(typeClientHello, clientHelloBody(true), true)
	d := datum.New(buf)
	h := ParseDTLSClientHello(&d)
	require.True(t, h.IsNotEmpty())
	assert.True(t, h.IsDTLS())

	rec := emitter.NewRecord()
	h.WriteJSON(rec, true)
	client := rec.Data()["dtls"].(map[string]any)["client"].(map[string]any)
	assert.Equal(t, "aabb", client["cookie"])
	assert.Len(t, client["extensions"], 4)
}

func TestParseClientHelloTruncated(t *testing.T) {
	buf := record(typeClientHello, clientHelloBody(false), false)
	// header, handshake header, version, random, session id, ciphers, compression
	minimal := 5 + 4 + 2 + randomLen + 1 + 8 + 2
	for n := 0; n < minimal; n++ {
		d := datum.New(buf[:n])
		assert.False(t, ParseClientHello(&d).IsNotEmpty(), "prefix %d", n)
	}
	d := datum.New(buf[:minimal+3])
	h := ParseClientHello(&d)
	assert.True(t, h.IsNotEmpty())
	assert.Empty(t, h.Extensions())
}

func TestParseClientHelloWrongType(t *testing.T) {
	buf := record(typeServerHello, serverHelloBody(), false)
	d := datum.New(buf)
	h := ParseClientHello(&d)
	assert.False(t, h.IsNotEmpty())
	assert.Empty(t, h.Fingerprint())
	assert.Equal(t, len(buf), d.Length())

	rec := emitter.NewRecord()
	h.WriteJSON(rec, true)
	assert.True(t, rec.IsEmpty())
}

func TestParseServerHello(t *testing.T) {
	buf := record(typeServerHello, serverHelloBody(), false)
	require.True(t, ServerHelloMatcher.Matches(buf))
	require.False(t, ClientHelloMatcher.Matches(buf))

	d := datum.New(buf)
	h := ParseServerHello(&d)
	require.True(t, h.IsNotEmpty())
	assert.Equal(t, uint16(0x1301), h.CipherSuite())
	v, ok := h.SelectedVersion()
	require.True(t, ok)
	assert.Equal(t, uint16(0x0304), v)
	assert.Equal(t, "(0303)(1301)((002b00020304))", h.Fingerprint())

	rec := emitter.NewRecord()
	h.WriteJSON(rec, false)
	server := rec.Data()["tls"].(map[string]any)["server"].(map[string]any)
	assert.Equal(t, "1301", server["selected_cipher_suite"])
	assert.Equal(t, "0304", server["selected_version"])
	assert.Equal(t, "01020304", server["session_id"])
}

func TestParseDTLSServerHello(t *testing.T) {
	buf := record(typeServerHello, serverHelloBody(), true)
	d := datum.New(buf)
	h := ParseDTLSServerHello(&d)
	require.True(t, h.IsNotEmpty())
	assert.True(t, h.IsDTLS())
}

func TestIsGREASE(t *testing.T) {
	assert.True(t, IsGREASE(0x0a0a))
	assert.True(t, IsGREASE(0xfafa))
	assert.False(t, IsGREASE(0x0a1a))
	assert.False(t, IsGREASE(0x1301))
}
