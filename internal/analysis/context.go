package analysis

import (
	"net/netip"
	"time"

	"firestige.xyz/wirefp/internal/core"
	"firestige.xyz/wirefp/pkg/emitter"
)

// Context is the result of analyzing one packet: the parsed record plus the
// flow it was seen on. A Context views the packet bytes it was built from
// and is valid only as long as they are.
type Context struct {
	Record Record

	SrcIP     netip.Addr
	DstIP     netip.Addr
	SrcPort   uint16
	DstPort   uint16
	Protocol  uint8
	Timestamp time.Time

	fpType   FingerprintType
	fpString string
}

func newContext(rec Record, pkt *core.DecodedPacket) *Context {
	c := &Context{
		Record:    rec,
		SrcIP:     pkt.IP.SrcIP,
		DstIP:     pkt.IP.DstIP,
		SrcPort:   pkt.Transport.SrcPort,
		DstPort:   pkt.Transport.DstPort,
		Protocol:  pkt.Transport.Protocol,
		Timestamp: pkt.Timestamp,
	}
	c.fpType, c.fpString = rec.Fingerprint()
	return c
}

// FingerprintType returns the type of the fingerprint, or
// FingerprintTypeUnknown when the record has none.
func (c *Context) FingerprintType() FingerprintType {
	if c == nil {
		return FingerprintTypeUnknown
	}
	return c.fpType
}

// FingerprintStatus is NoInfoAvailable without a fingerprint and Unlabeled
// otherwise; no classifier is present to label one.
func (c *Context) FingerprintStatus() FingerprintStatus {
	if c.FingerprintType() == FingerprintTypeUnknown {
		return FingerprintStatusNoInfoAvailable
	}
	return FingerprintStatusUnlabeled
}

// FingerprintString returns "<type>/<fingerprint>".
func (c *Context) FingerprintString() (string, bool) {
	if c.FingerprintType() == FingerprintTypeUnknown {
		return "", false
	}
	return c.fpType.String() + "/" + c.fpString, true
}

// ServerName returns the TLS server name or HTTP host.
func (c *Context) ServerName() (string, bool) {
	if c == nil {
		return "", false
	}
	b, ok := c.Record.ServerName()
	return string(b), ok
}

// ALPNs returns the application protocols named in a TLS hello.
func (c *Context) ALPNs() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, p := range c.Record.ALPNs() {
		out = append(out, string(p))
	}
	return out
}

// UserAgent returns the User-Agent of an HTTP request.
func (c *Context) UserAgent() (string, bool) {
	if c == nil {
		return "", false
	}
	b, ok := c.Record.UserAgent()
	return string(b), ok
}

// ProcessInfo would return the most probable originating process. It is
// never available.
func (c *Context) ProcessInfo() (name string, score float64, ok bool) {
	return "", 0, false
}

// MalwareInfo would return the malware verdict. It is never available.
func (c *Context) MalwareInfo() (malware bool, probability float64, ok bool) {
	return false, 0, false
}

// WriteJSON writes the full record: fingerprints, the protocol record and
// flow fields.
func (c *Context) WriteJSON(w emitter.Writer, metadata bool) {
	if fp, ok := c.FingerprintString(); ok {
		w.Object(core.KeyFingerprints).String(c.fpType.String(), fp)
	}
	c.Record.WriteJSON(w, metadata)
	if c.SrcIP.IsValid() {
		w.String(core.KeySrcIP, c.SrcIP.String())
	}
	if c.DstIP.IsValid() {
		w.String(core.KeyDstIP, c.DstIP.String())
	}
	w.Uint(core.KeyProtocol, uint64(c.Protocol))
	w.Uint(core.KeySrcPort, uint64(c.SrcPort))
	w.Uint(core.KeyDstPort, uint64(c.DstPort))
	if !c.Timestamp.IsZero() {
		w.Float(core.KeyEventStart, float64(c.Timestamp.UnixNano())/1e9)
	}
}
