package emitter

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"
	"unicode/utf8"

	"github.com/Jeffail/gabs/v2"
)

// Record is a JSON document built through the Writer interface.
type Record struct {
	object
}

// NewRecord returns an empty JSON object.
func NewRecord() *Record {
	return &Record{object{c: gabs.New()}}
}

// Bytes returns the encoded document.
func (r *Record) Bytes() []byte { return r.c.Bytes() }

// JSON returns the encoded document as a string.
func (r *Record) JSON() string { return r.c.String() }

// Data returns the document as nested maps and slices.
func (r *Record) Data() map[string]any {
	if m, ok := r.c.Data().(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// IsEmpty reports whether nothing has been written.
func (r *Record) IsEmpty() bool { return len(r.c.ChildrenMap()) == 0 }

// Container exposes the underlying gabs container.
func (r *Record) Container() *gabs.Container { return r.c }

var _ Writer = (*Record)(nil)

type object struct {
	c *gabs.Container
}

func (o object) set(key string, v any) {
	// only fails when the key collides with a non-object, which keys
	// without path separators cannot do
	_, _ = o.c.Set(v, key)
}

func (o object) String(key, value string)            { o.set(key, value) }
func (o object) JSONString(key string, value []byte) { o.set(key, rawString(value)) }
func (o object) Hex(key string, value []byte)        { o.set(key, hex.EncodeToString(value)) }
func (o object) HexUint16(key string, value uint16)  { o.set(key, fmt.Sprintf("%04x", value)) }
func (o object) Uint(key string, value uint64)       { o.set(key, value) }
func (o object) Int(key string, value int64)         { o.set(key, value) }
func (o object) Bool(key string, value bool)         { o.set(key, value) }
func (o object) Float(key string, value float64)     { o.set(key, value) }

func (o object) IPv4(key string, value []byte) {
	if len(value) != 4 {
		return
	}
	o.set(key, netip.AddrFrom4([4]byte(value)).String())
}

func (o object) Object(key string) Writer {
	child, err := o.c.Object(key)
	if err != nil {
		child = gabs.New()
		o.set(key, child.Data())
	}
	return object{c: child}
}

func (o object) Array(key string) ArrayWriter {
	if _, err := o.c.Array(key); err != nil {
		o.set(key, []any{})
	}
	return array{parent: o.c, key: key}
}

type array struct {
	parent *gabs.Container
	key    string
}

func (a array) add(v any) { _ = a.parent.ArrayAppend(v, a.key) }

func (a array) String(value string) { a.add(value) }
func (a array) Hex(value []byte)    { a.add(hex.EncodeToString(value)) }
func (a array) Uint(value uint64)   { a.add(value) }

func (a array) Object() Writer {
	child := gabs.New()
	a.add(child.Data())
	return object{c: child}
}

// rawString converts wire bytes to a string without losing any of them.
// Bytes that are not part of a valid UTF-8 sequence map to the code point
// of the same value, so 0xff becomes U+00FF rather than U+FFFD.
func rawString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		if r == utf8.RuneError && n == 1 {
			r = rune(b[0])
		}
		sb.WriteRune(r)
		b = b[n:]
	}
	return sb.String()
}
