// Package mysql parses the initial handshake packet a MySQL or MariaDB
// server sends when a client connects.
package mysql

import (
	"bytes"

	"firestige.xyz/wirefp/pkg/datum"
	"firestige.xyz/wirefp/pkg/emitter"
)

const (
	salt1Len = 9
	salt2Len = 13
)

// Matcher identifies candidate greetings: sequence number 0, protocol 10
// and a version string starting "d.d".
var Matcher = datum.NewMatcher(
	[]byte{0xf8, 0xff, 0xf0, 0xff, 0xf0, 0xe0, 0xe0, 0x00},
	[]byte{0x00, 0x0a, 0x30, 0x2e, 0x30, 0x20, 0x20, 0x00},
	3,
)

// ServerGreeting is a parsed server handshake (protocol version 10).
type ServerGreeting struct {
	length        uint32
	pktNum        uint8
	proto         uint8
	version       datum.Datum
	threadID      uint32
	salt1         datum.Datum
	caps          Capabilities
	collation     uint8
	status        ServerStatus
	extCaps       ExtendedCapabilities
	authPluginLen uint8

	verLess41      bool
	mariaDB        bool
	partialSalt    bool
	salt2          datum.Datum
	mariaDBExtCaps uint32
	authPlugin     datum.Datum
	valid          bool

	salt    [32]byte
	saltLen int
}

// ParseServerGreeting consumes a greeting from pkt. The result is valid
// only if every field was present, the version and salt fragments were
// NUL terminated and pkt was consumed exactly.
func ParseServerGreeting(pkt *datum.Datum) *ServerGreeting {
	g := &ServerGreeting{}
	g.length = datum.Uint24(pkt, datum.LittleEndian)
	g.pktNum = datum.Uint8(pkt)
	g.proto = datum.Uint8(pkt)
	if off := pkt.FindDelim(0x00); off >= 0 {
		g.version = datum.Sub(pkt, off+1)
	} else {
		g.version = datum.Null()
	}
	g.threadID = datum.Uint32(pkt, datum.LittleEndian)
	g.salt1 = datum.Sub(pkt, salt1Len)
	g.caps = Capabilities(datum.Uint16(pkt, datum.LittleEndian))
	g.collation = datum.Uint8(pkt)
	g.status = ServerStatus(datum.Uint16(pkt, datum.LittleEndian))
	g.extCaps = ExtendedCapabilities(datum.Uint16(pkt, datum.LittleEndian))
	g.authPluginLen = datum.Uint8(pkt)

	v := g.version.Bytes()
	if len(v) < 6 || v[len(v)-1] != 0x00 {
		return g
	}
	hasAuthPlugin := g.authPluginLen > 0
	major, minor := v[0], v[2]
	g.verLess41 = major < '4' || (major == '4' && minor < '1')
	if major < '5' && hasAuthPlugin {
		return g
	}
	g.partialSalt = !g.verLess41
	g.mariaDB = len(v) > 9 || g.caps&1 == 0
	if g.mariaDB {
		pkt.Skip(6)
		g.mariaDBExtCaps = datum.Uint32(pkt, datum.LittleEndian)
	} else {
		pkt.Skip(10)
	}
	if g.partialSalt {
		g.salt2 = datum.Sub(pkt, salt2Len)
		s := g.salt2.Bytes()
		if len(s) != salt2Len || s[salt2Len-1] != 0x00 {
			return g
		}
	}
	if hasAuthPlugin {
		g.authPlugin = datum.Sub(pkt, int(g.authPluginLen)+1)
	}
	if pkt.IsNull() || pkt.Length() != 0 || g.salt1.IsNull() {
		return g
	}
	g.assembleSalt()
	g.valid = true
	return g
}

func (g *ServerGreeting) assembleSalt() {
	n := copy(g.salt[:], trimTerminator(g.salt1.Bytes()))
	if g.partialSalt {
		n += copy(g.salt[n:], trimTerminator(g.salt2.Bytes()))
	}
	g.saltLen = n
}

func trimTerminator(b []byte) []byte {
	if len(b) > 0 {
		return b[:len(b)-1]
	}
	return b
}

func stripNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		return b[:i]
	}
	return b
}

// IsNotEmpty reports whether the greeting parsed cleanly.
func (g *ServerGreeting) IsNotEmpty() bool { return g.valid }

// IsMariaDB reports whether the server was classified as MariaDB.
func (g *ServerGreeting) IsMariaDB() bool { return g.valid && g.mariaDB }

// Version returns the server version without its terminator.
func (g *ServerGreeting) Version() []byte { return stripNUL(g.version.Bytes()) }

// Salt returns the assembled authentication salt.
func (g *ServerGreeting) Salt() []byte { return g.salt[:g.saltLen] }

// AuthPlugin returns the auth plugin name, if the server sent one.
func (g *ServerGreeting) AuthPlugin() []byte { return stripNUL(g.authPlugin.Bytes()) }

// ThreadID returns the connection id the server assigned.
func (g *ServerGreeting) ThreadID() uint32 { return g.threadID }

// Capabilities returns the lower capability flags.
func (g *ServerGreeting) Capabilities() Capabilities { return g.caps }

// Extended returns the upper capability flags.
func (g *ServerGreeting) Extended() ExtendedCapabilities { return g.extCaps }

// Status returns the server status flags.
func (g *ServerGreeting) Status() ServerStatus { return g.status }

// CollationID returns the default collation id.
func (g *ServerGreeting) CollationID() uint8 { return g.collation }

// MariaDBExtendedCapabilities returns the MariaDB capability word, zero
// for MySQL servers.
func (g *ServerGreeting) MariaDBExtendedCapabilities() uint32 { return g.mariaDBExtCaps }

// WriteJSON writes {"mysql_server":{...}}. Nothing is written for an
// invalid greeting.
func (g *ServerGreeting) WriteJSON(w emitter.Writer, metadata bool) {
	if !g.valid {
		return
	}
	o := w.Object("mysql_server")
	o.JSONString("version", g.Version())
	if metadata {
		o.Uint("pkt_num", uint64(g.pktNum))
	}
	o.JSONString("salt", g.Salt())
	writeFlags(o, "capabilities_value", "capabilities_str", uint16(g.caps), true, g.caps.Names(), metadata)
	if name, ok := CollationName(g.collation); ok {
		o.String("collation", name)
	} else {
		o.Uint("collation_id", uint64(g.collation))
	}
	writeFlags(o, "server_status_value", "server_status_str", uint16(g.status), false, g.status.Names(), metadata)
	writeFlags(o, "extended_capabilities_value", "ext_capabilities_str", uint16(g.extCaps), false, g.extCaps.Names(), metadata)
	if g.authPluginLen > 0 {
		o.Uint("auth_plugin_len", uint64(g.authPluginLen))
		o.JSONString("auth_plugin", g.AuthPlugin())
	}
	o.Bool("mariadb", g.mariaDB)
	if g.mariaDB {
		o.Uint("mariadb_extended", uint64(g.mariaDBExtCaps))
	}
}
