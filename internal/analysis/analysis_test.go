package analysis

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	mdns "github.com/miekg/dns"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/internal/metrics"
	"firestige.xyz/wirefp/pkg/emitter"
)

const httpRequest = "GET /index.html HTTP/1.1\r\n" +
	"Host: example.com\r\n" +
	"User-Agent: curl/8.0\r\n" +
	"\r\n"

var testTime = time.Unix(1700000000, 500000000)

func ethernetIPv4(proto uint8, l4 []byte) []byte {
	frame := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
		0x08, 0x00,
	}
	ip := []byte{0x45, 0x00, 0, 0, 0x12, 0x34, 0, 0, 0x40, proto, 0x00, 0x00,
		10, 0, 0, 1,
		10, 0, 0, 2,
	}
	binary.BigEndian.PutUint16(ip[2:], uint16(20+len(l4)))
	frame = append(frame, ip...)
	return append(frame, l4...)
}

func tcpFrame(src, dst uint16, payload []byte) []byte {
	seg := make([]byte, 20)
	binary.BigEndian.PutUint16(seg[0:], src)
	binary.BigEndian.PutUint16(seg[2:], dst)
	seg[12] = 0x50
	seg[13] = core.TCPFlagPSH | core.TCPFlagACK
	return ethernetIPv4(core.ProtocolTCP, append(seg, payload...))
}

func udpFrame(src, dst uint16, payload []byte) []byte {
	seg := make([]byte, 8)
	binary.BigEndian.PutUint16(seg[0:], src)
	binary.BigEndian.PutUint16(seg[2:], dst)
	binary.BigEndian.PutUint16(seg[4:], uint16(8+len(payload)))
	return ethernetIPv4(core.ProtocolUDP, append(seg, payload...))
}

func wireguardInitiation() []byte {
	b := make([]byte, 148)
	b[0] = 1
	copy(b[4:8], []byte{0x78, 0x56, 0x34, 0x12})
	return b
}

func dnsQuery(t *testing.T) []byte {
	m := new(mdns.Msg)
	m.SetQuestion("example.com.", mdns.TypeA)
	m.Id = 0x1234
	b, err := m.Pack()
	require.NoError(t, err)
	return b
}

func newTestProcessor(t *testing.T, cfg Config) (*Engine, *Processor) {
	e := NewEngine(cfg)
	p, err := e.NewProcessor()
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return e, p
}

func TestClassifyTCP(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    TCPMessageType
	}{
		{"http request", []byte(httpRequest), TCPHTTPRequest},
		{"http response", []byte("HTTP/1.1 200 OK\r\n\r\n"), TCPHTTPResponse},
		{"tls client hello", []byte{0x16, 0x03, 0x01, 0x00, 0x40, 0x01, 0x00, 0x00, 0x3c, 0x03, 0x03}, TCPTLSClientHello},
		{"tls server hello", []byte{0x16, 0x03, 0x03, 0x00, 0x40, 0x02, 0x00, 0x00, 0x3c, 0x03, 0x03}, TCPTLSServerHello},
		{"mysql greeting", []byte{0x4a, 0x00, 0x00, 0x00, 0x0a, '5', '.', '7', '.', '0', 0x00}, TCPMySQLGreeting},
		{"short", []byte("GE"), TCPUnknown},
		{"noise", bytes.Repeat([]byte{0xee}, 64), TCPUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTCP(tt.payload))
		})
	}
}

func TestParseTCPHTTPRequest(t *testing.T) {
	r := ParseTCP([]byte(httpRequest), DefaultConfig().Protocols)
	require.Equal(t, KindHTTPRequest, r.Kind)
	require.True(t, r.IsNotEmpty())

	host, ok := r.ServerName()
	require.True(t, ok)
	assert.Equal(t, "example.com", string(host))

	ua, ok := r.UserAgent()
	require.True(t, ok)
	assert.Equal(t, "curl/8.0", string(ua))
	assert.Nil(t, r.ALPNs())

	typ, fp := r.Fingerprint()
	assert.Equal(t, FingerprintTypeHTTP, typ)
	assert.Equal(t, "(474554)(485454502f312e31)((486f7374)(557365722d4167656e74))", fp)
}

func TestParseTCPDisabledProtocol(t *testing.T) {
	protos := DefaultConfig().Protocols
	protos.HTTP = false
	r := ParseTCP([]byte(httpRequest), protos)
	assert.Equal(t, KindNone, r.Kind)
	assert.False(t, r.IsNotEmpty())
}

func TestParseTCPRejectionCounted(t *testing.T) {
	before := testutil.ToFloat64(metrics.ParserRejectionsTotal.WithLabelValues(core.LabelHTTP))

	// matches the request matcher but has no URI
	r := ParseTCP([]byte("GET "), DefaultConfig().Protocols)
	assert.Equal(t, KindNone, r.Kind)

	after := testutil.ToFloat64(metrics.ParserRejectionsTotal.WithLabelValues(core.LabelHTTP))
	assert.Equal(t, before+1, after)
}

func TestParseTCPTofseeFallback(t *testing.T) {
	payload := bytes.Repeat([]byte{0xee}, 200)
	require.Equal(t, TCPUnknown, ClassifyTCP(payload))

	protos := DefaultConfig().Protocols
	protos.Tofsee = false
	assert.Equal(t, KindNone, ParseTCP(payload, protos).Kind)

	// other lengths are never tried
	assert.Equal(t, KindNone, ParseTCP(payload[:199], DefaultConfig().Protocols).Kind)
}

func TestParseUDP(t *testing.T) {
	protos := DefaultConfig().Protocols

	r := ParseUDP(wireguardInitiation(), protos)
	require.Equal(t, KindWireGuard, r.Kind)
	typ, fp := r.Fingerprint()
	assert.Equal(t, FingerprintTypeUnknown, typ)
	assert.Empty(t, fp)

	r = ParseUDP(dnsQuery(t), protos)
	require.Equal(t, KindDNS, r.Kind)
	assert.True(t, r.IsNotEmpty())

	protos.WireGuard = false
	assert.Equal(t, KindNone, ParseUDP(wireguardInitiation(), protos).Kind)
	assert.Equal(t, KindNone, ParseUDP([]byte{1, 2, 3}, protos).Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "http", KindHTTPRequest.String())
	assert.Equal(t, "http_server", KindHTTPResponse.String())
	assert.Equal(t, "mysql_server", KindMySQLGreeting.String())
	assert.Equal(t, "dtls", KindDTLSClientHello.String())
	assert.Equal(t, "unknown", KindNone.String())
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestFingerprintEnums(t *testing.T) {
	assert.Equal(t, "tls", FingerprintTypeTLS.String())
	assert.Equal(t, "dhcp", FingerprintTypeDHCP.String())
	assert.Equal(t, "unknown", FingerprintTypeUnknown.String())

	assert.EqualValues(t, 0, FingerprintStatusNoInfoAvailable)
	assert.EqualValues(t, 1, FingerprintStatusLabeled)
	assert.EqualValues(t, 2, FingerprintStatusRandomized)
	assert.EqualValues(t, 3, FingerprintStatusUnlabeled)
	assert.Equal(t, "unknown status code (9)", FingerprintStatus(9).String())
}

func TestProcessorAnalyzeHTTP(t *testing.T) {
	_, p := newTestProcessor(t, DefaultConfig())

	ctx := p.Analyze(tcpFrame(40000, 80, []byte(httpRequest)), testTime)
	require.NotNil(t, ctx)
	assert.Equal(t, FingerprintTypeHTTP, ctx.FingerprintType())
	assert.Equal(t, FingerprintStatusUnlabeled, ctx.FingerprintStatus())

	fp, ok := ctx.FingerprintString()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fp, "http/(474554)"))

	name, ok := ctx.ServerName()
	require.True(t, ok)
	assert.Equal(t, "example.com", name)

	ua, ok := ctx.UserAgent()
	require.True(t, ok)
	assert.Equal(t, "curl/8.0", ua)

	_, _, ok = ctx.ProcessInfo()
	assert.False(t, ok)
	_, _, ok = ctx.MalwareInfo()
	assert.False(t, ok)

	rec := emitter.NewRecord()
	ctx.WriteJSON(rec, false)
	d := rec.Data()
	assert.Equal(t, fp, d["fingerprints"].(map[string]any)["http"])
	assert.Contains(t, d, "http")
	assert.Equal(t, "10.0.0.1", d["src_ip"])
	assert.Equal(t, "10.0.0.2", d["dst_ip"])
	assert.EqualValues(t, 40000, d["src_port"])
	assert.EqualValues(t, 80, d["dst_port"])
	assert.EqualValues(t, 6, d["protocol"])
	assert.InDelta(t, 1700000000.5, d["event_start"], 1e-6)
}

func TestProcessorAnalyzeUDP(t *testing.T) {
	e, p := newTestProcessor(t, DefaultConfig())

	ctx := p.AnalyzeLinkType(udpFrame(51820, 51820, wireguardInitiation()), testTime, core.LinkTypeEthernet)
	require.NotNil(t, ctx)
	assert.Equal(t, KindWireGuard, ctx.Record.Kind)
	assert.Equal(t, FingerprintStatusNoInfoAvailable, ctx.FingerprintStatus())
	_, ok := ctx.FingerprintString()
	assert.False(t, ok)

	assert.Equal(t, uint64(1), e.Stats().Records["wireguard"])
}

func TestProcessorNoRecord(t *testing.T) {
	e, p := newTestProcessor(t, DefaultConfig())

	assert.Nil(t, p.Analyze(tcpFrame(1, 2, []byte("hello")), testTime))
	assert.Nil(t, p.Analyze([]byte{0x01, 0x02}, testTime))
	assert.Nil(t, p.AnalyzeLinkType(tcpFrame(1, 2, []byte(httpRequest)), testTime, core.LinkType(999)))

	s := e.Stats()
	assert.Equal(t, uint64(3), s.Packets)
	assert.Equal(t, uint64(2), s.DecodeErrors)
	assert.Empty(t, s.Records)
}

func TestEngineErrorCallback(t *testing.T) {
	e, p := newTestProcessor(t, DefaultConfig())

	var msgs []string
	e.RegisterErrorCallback(func(msg string) { msgs = append(msgs, msg) })
	p.AnalyzeLinkType([]byte{0x45}, testTime, core.LinkType(999))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "unsupported link type")

	e.RegisterErrorCallback(nil)
	p.AnalyzeLinkType([]byte{0x45}, testTime, core.LinkType(999))
	assert.Len(t, msgs, 1)
}

func TestEngineClose(t *testing.T) {
	e := NewEngine(DefaultConfig())
	p, err := e.NewProcessor()
	require.NoError(t, err)
	p.Close()
	p.Close()
	assert.Equal(t, int64(0), e.processors.Load())

	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Close(), core.ErrEngineClosed)

	_, err = e.NewProcessor()
	assert.ErrorIs(t, err, core.ErrEngineClosed)
}

func TestEngineWriteStats(t *testing.T) {
	e, p := newTestProcessor(t, DefaultConfig())
	p.Analyze(tcpFrame(40000, 80, []byte(httpRequest)), testTime)

	var buf bytes.Buffer
	require.NoError(t, e.WriteStats(&buf))
	assert.JSONEq(t, `{"packets":1,"decode_errors":0,"records":{"http":1}}`, buf.String())
}

func TestNilContextAccessors(t *testing.T) {
	var c *Context
	assert.Equal(t, FingerprintTypeUnknown, c.FingerprintType())
	assert.Equal(t, FingerprintStatusNoInfoAvailable, c.FingerprintStatus())
	_, ok := c.ServerName()
	assert.False(t, ok)
	assert.Nil(t, c.ALPNs())
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = DecodeConfig(map[string]any{
		"output_metadata": "true",
		"protocols":       map[string]any{"tofsee": false},
	})
	require.NoError(t, err)
	assert.True(t, cfg.OutputMetadata)
	assert.False(t, cfg.Protocols.Tofsee)
	assert.True(t, cfg.Protocols.TLS)

	_, err = DecodeConfig(map[string]any{"bogus": 1})
	assert.Error(t, err)
}
