package mysql

import "firestige.xyz/wirefp/pkg/emitter"

// Flag names, indexed by bit position.
var (
	capabilityNames = [16]string{
		"LONG_PASSWORD",
		"FOUND_ROWS",
		"LONG_FLAG",
		"CONNECT_WITH_DB",
		"NO_SCHEMA",
		"COMPRESS",
		"ODBC",
		"LOCAL_FILES",
		"IGNORE_SPACE",
		"PROTOCOL_41",
		"INTERACTIVE",
		"SSL",
		"IGNORE_SIGPIPE",
		"TRANSACTIONS",
		"RESERVED",
		"SECURE_CONNECTION",
	}

	extendedCapabilityNames = [16]string{
		"MULTI_STATEMENTS",
		"MULTI_RESULTS",
		"PS_MULTI_RESULTS",
		"PLUGIN_AUTH",
		"CONNECT_ATTRS",
		"PLUGIN_AUTH_LENENC_CLIENT_DATA",
		"CAN_HANDLE_EXPIRED_PASSWORD",
		"SESSION_TRACK",
		"DEPRECATE_EOF",
		"OPTIONAL_RESULTSET_METADATA",
		"ZSTD_COMPRESSION_ALGORITHM",
		"QUERY_ATTRIBUTES",
		"MULTI_FACTOR_AUTHENTICATION",
		"CAPABILITY_EXTENSION",
		"SSL_VERIFY_SERVER_CERT",
		"REMEMBER_OPTIONS",
	}

	serverStatusNames = [16]string{
		"STATUS_IN_TRANS",
		"STATUS_AUTOCOMMIT",
		"MORE_RESULTS_EXISTS",
		"QUERY_NO_GOOD_INDEX_USED",
		"QUERY_NO_INDEX_USED",
		"STATUS_CURSOR_EXISTS",
		"STATUS_LAST_ROW_SENT",
		"STATUS_DB_DROPPED",
		"STATUS_NO_BACKSLASH_ESCAPES",
		"STATUS_METADATA_CHANGED",
		"QUERY_WAS_SLOW",
		"PS_OUT_PARAMS",
		"STATUS_IN_TRANS_READONLY",
		"SESSION_STATE_CHANGED",
		"RESERVED",
		"RESERVED",
	}
)

// Capabilities is the lower 16 bits of the server capability flags.
type Capabilities uint16

// ExtendedCapabilities is the upper 16 bits of the server capability flags.
type ExtendedCapabilities uint16

// ServerStatus is the server status bit-field.
type ServerStatus uint16

// Names returns the names of the set bits, lowest bit first.
func (c Capabilities) Names() []string { return flagNames(uint16(c), &capabilityNames) }

// Names returns the names of the set bits, lowest bit first.
func (c ExtendedCapabilities) Names() []string {
	return flagNames(uint16(c), &extendedCapabilityNames)
}

// Names returns the names of the set bits, lowest bit first.
func (s ServerStatus) Names() []string { return flagNames(uint16(s), &serverStatusNames) }

func flagNames(v uint16, table *[16]string) []string {
	var names []string
	for i := 0; i < len(table); i++ {
		if v&(1<<i) != 0 {
			names = append(names, table[i])
		}
	}
	return names
}

// writeFlags writes the raw value under valueKey and, with metadata, the
// flag names under namesKey. Capabilities keep their little-endian wire
// order ("fff7"); the other bit-fields are written as numbers ("0002").
func writeFlags(w emitter.Writer, valueKey, namesKey string, v uint16, wireOrder bool, names []string, metadata bool) {
	if wireOrder {
		w.Hex(valueKey, []byte{byte(v), byte(v >> 8)})
	} else {
		w.HexUint16(valueKey, v)
	}
	if !metadata {
		return
	}
	a := w.Array(namesKey)
	for _, n := range names {
		a.String(n)
	}
}

// CollationName returns the name of a 1-based collation id.
func CollationName(id uint8) (string, bool) {
	if id == 0 || int(id) > len(collations) {
		return "", false
	}
	return collations[id-1], true
}
