// Package datum provides a bounds-checked, read-only cursor over a byte
// buffer, plus the fixed-width field reader and mask/value matcher that the
// protocol parsers are built from.
//
// A Datum never copies the bytes it views. Any operation that would read past
// the end of the buffer puts the Datum into the null state, and a null Datum
// stays null: every further operation is a no-op. Parsers therefore run their
// field reads in sequence and check validity once at the end.
package datum

import "bytes"

// Datum is a view over a contiguous, immutable byte range that is consumed
// from the front.
type Datum struct {
	data []byte
	null bool
}

// New returns a Datum over b. A nil b yields an empty, non-null Datum.
func New(b []byte) Datum {
	return Datum{data: b}
}

// Null returns a Datum in the null state.
func Null() Datum {
	return Datum{null: true}
}

// Sub takes the first n bytes of src as a new Datum and advances src past
// them. If src holds fewer than n bytes, both src and the result are null.
func Sub(src *Datum, n int) Datum {
	if src.null || n < 0 || n > len(src.data) {
		src.SetNull()
		return Null()
	}
	d := Datum{data: src.data[:n:n]}
	src.data = src.data[n:]
	return d
}

// UpToDelim takes the bytes of src before the first occurrence of delim and
// leaves src positioned at the delimiter. When delim does not occur, the
// result is the whole remainder and src ends up empty.
func UpToDelim(src *Datum, delim byte) Datum {
	if src.null {
		return Null()
	}
	i := bytes.IndexByte(src.data, delim)
	if i < 0 {
		i = len(src.data)
	}
	d := Datum{data: src.data[:i:i]}
	src.data = src.data[i:]
	return d
}

// IsNull reports whether the Datum is in the null state.
func (d Datum) IsNull() bool { return d.null }

// IsNotNull reports whether the Datum is usable.
func (d Datum) IsNotNull() bool { return !d.null }

// IsNotEmpty reports whether the Datum is non-null and has bytes left.
func (d Datum) IsNotEmpty() bool { return !d.null && len(d.data) > 0 }

// Length returns the number of bytes left; zero when null.
func (d Datum) Length() int {
	if d.null {
		return 0
	}
	return len(d.data)
}

// Bytes returns the remaining bytes, or nil when null. The slice aliases the
// underlying buffer and must not be modified.
func (d Datum) Bytes() []byte {
	if d.null {
		return nil
	}
	return d.data
}

// SetNull puts the Datum into the null state.
func (d *Datum) SetNull() {
	d.data = nil
	d.null = true
}

// Skip advances past n bytes. Underflow nulls the Datum.
func (d *Datum) Skip(n int) {
	if d.null {
		return
	}
	if n < 0 || n > len(d.data) {
		d.SetNull()
		return
	}
	d.data = d.data[n:]
}

// Trim drops n bytes from the end. Underflow nulls the Datum.
func (d *Datum) Trim(n int) {
	if d.null {
		return
	}
	if n < 0 || n > len(d.data) {
		d.SetNull()
		return
	}
	d.data = d.data[:len(d.data)-n]
}

// FindDelim returns the offset of the first b, or -1.
func (d Datum) FindDelim(b byte) int {
	if d.null {
		return -1
	}
	return bytes.IndexByte(d.data, b)
}

// SkipUpToDelim advances past the first occurrence of delim. When delim is
// not present the Datum is nulled and false is returned.
func (d *Datum) SkipUpToDelim(delim []byte) bool {
	if d.null {
		return false
	}
	i := bytes.Index(d.data, delim)
	if i < 0 {
		d.SetNull()
		return false
	}
	d.data = d.data[i+len(delim):]
	return true
}

// AcceptPrefix consumes p if the Datum starts with it. A mismatch leaves the
// Datum untouched.
func (d *Datum) AcceptPrefix(p []byte) bool {
	if d.null || !bytes.HasPrefix(d.data, p) {
		return false
	}
	d.data = d.data[len(p):]
	return true
}

// HasPrefix reports whether the Datum starts with p without consuming it.
func (d Datum) HasPrefix(p []byte) bool {
	return !d.null && bytes.HasPrefix(d.data, p)
}

// Matches reports whether m matches the front of the Datum. Nothing is
// consumed.
func (d Datum) Matches(m Matcher) bool {
	if d.null {
		return false
	}
	return m.Matches(d.data)
}

// Equal reports whether the remaining bytes equal b.
func (d Datum) Equal(b []byte) bool {
	return !d.null && bytes.Equal(d.data, b)
}

// CaseInsensitiveEqual reports whether the remaining bytes equal b under
// ASCII case folding.
func (d Datum) CaseInsensitiveEqual(b []byte) bool {
	return !d.null && bytes.EqualFold(d.data, b)
}

// String returns a copy of the remaining bytes as a string.
func (d Datum) String() string {
	return string(d.Bytes())
}
