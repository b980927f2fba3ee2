package datum

import (
	"encoding/binary"
	"math/bits"
)

// Order selects the byte order of an encoded field.
type Order bool

const (
	// BigEndian is network byte order, the default for wire formats.
	BigEndian Order = false
	// LittleEndian is used by formats such as the MySQL wire protocol.
	LittleEndian Order = true
)

// Unsigned is the set of fixed-width field types Read understands.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Encoded is a fixed-width unsigned field read from a Datum.
type Encoded[T Unsigned] struct {
	val T
}

// Value returns the decoded value; zero when the read underflowed.
func (e Encoded[T]) Value() T { return e.val }

// Bit reports whether bit i (0 = least significant) is set.
func (e Encoded[T]) Bit(i uint) bool {
	return uint64(e.val)>>i&1 == 1
}

// Read consumes sizeof(T) bytes from d and decodes them in the given order.
// On underflow d is nulled and the value is zero.
func Read[T Unsigned](d *Datum, order Order) Encoded[T] {
	n := bits.Len64(uint64(^T(0))) / 8
	b := Sub(d, n)
	if b.IsNull() {
		return Encoded[T]{}
	}
	var bo binary.ByteOrder = binary.BigEndian
	if order == LittleEndian {
		bo = binary.LittleEndian
	}
	var v uint64
	switch n {
	case 1:
		v = uint64(b.data[0])
	case 2:
		v = uint64(bo.Uint16(b.data))
	case 4:
		v = uint64(bo.Uint32(b.data))
	case 8:
		v = bo.Uint64(b.data)
	}
	return Encoded[T]{val: T(v)}
}

// Uint8 reads one byte.
func Uint8(d *Datum) uint8 {
	return Read[uint8](d, BigEndian).Value()
}

// Uint16 reads a 16-bit field.
func Uint16(d *Datum, order Order) uint16 {
	return Read[uint16](d, order).Value()
}

// Uint24 reads a 24-bit field, as used by TLS handshake lengths.
func Uint24(d *Datum, order Order) uint32 {
	b := Sub(d, 3)
	if b.IsNull() {
		return 0
	}
	if order == LittleEndian {
		return uint32(b.data[0]) | uint32(b.data[1])<<8 | uint32(b.data[2])<<16
	}
	return uint32(b.data[0])<<16 | uint32(b.data[1])<<8 | uint32(b.data[2])
}

// Uint32 reads a 32-bit field.
func Uint32(d *Datum, order Order) uint32 {
	return Read[uint32](d, order).Value()
}

// Uint64 reads a 64-bit field.
func Uint64(d *Datum, order Order) uint64 {
	return Read[uint64](d, order).Value()
}
