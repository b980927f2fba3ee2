// Package emitter defines the structured writer protocol records serialise
// themselves into, and a JSON implementation of it.
package emitter

// Writer receives typed key/value pairs and nested containers. Records call
// it in whatever order suits them; implementations decide the layout.
type Writer interface {
	String(key, value string)
	// JSONString writes raw bytes as a string value.
	JSONString(key string, value []byte)
	Hex(key string, value []byte)
	// HexUint16 writes a 16-bit field as four hex digits.
	HexUint16(key string, value uint16)
	Uint(key string, value uint64)
	Int(key string, value int64)
	// IPv4 writes a 4-byte address in dotted-quad form. Other lengths are
	// ignored.
	IPv4(key string, value []byte)
	Bool(key string, value bool)
	Float(key string, value float64)
	Object(key string) Writer
	Array(key string) ArrayWriter
}

// ArrayWriter appends values to an array.
type ArrayWriter interface {
	String(value string)
	Hex(value []byte)
	Uint(value uint64)
	Object() Writer
}
