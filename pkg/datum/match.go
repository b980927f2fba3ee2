package datum

import "fmt"

// Matcher tests whether a buffer carries a fixed byte pattern at a fixed
// offset. Bits cleared in the mask are ignored.
type Matcher struct {
	mask   []byte
	value  []byte
	offset int
}

// NewMatcher builds a Matcher. Mask and value must have the same length; a
// mismatch is a programming error and panics.
func NewMatcher(mask, value []byte, offset int) Matcher {
	if len(mask) != len(value) {
		panic(fmt.Sprintf("datum: mask length %d does not match value length %d", len(mask), len(value)))
	}
	if offset < 0 {
		panic("datum: negative matcher offset")
	}
	m := Matcher{
		mask:   append([]byte(nil), mask...),
		value:  append([]byte(nil), value...),
		offset: offset,
	}
	return m
}

// PrefixMatcher matches b exactly at offset zero.
func PrefixMatcher(b []byte) Matcher {
	mask := make([]byte, len(b))
	for i := range mask {
		mask[i] = 0xff
	}
	return NewMatcher(mask, b, 0)
}

// Len is the minimum buffer length the Matcher can match.
func (m Matcher) Len() int { return m.offset + len(m.mask) }

// Matches reports whether b[offset+i] & mask[i] == value[i] for every i.
func (m Matcher) Matches(b []byte) bool {
	if len(b) < m.Len() {
		return false
	}
	b = b[m.offset:]
	for i, mk := range m.mask {
		if b[i]&mk != m.value[i] {
			return false
		}
	}
	return true
}

// Rule pairs a Matcher with the tag a Dispatcher returns for it.
type Rule[T any] struct {
	Matcher Matcher
	Tag     T
}

// Dispatcher classifies a buffer by the first rule, in order, that matches
// it.
type Dispatcher[T any] struct {
	rules   []Rule[T]
	unknown T
	minLen  int
}

// NewDispatcher returns a Dispatcher over rules, which are tried in the given
// order. unknown is returned when no rule matches.
func NewDispatcher[T any](unknown T, rules ...Rule[T]) *Dispatcher[T] {
	d := &Dispatcher[T]{
		rules:   append([]Rule[T](nil), rules...),
		unknown: unknown,
	}
	for i, r := range d.rules {
		if i == 0 || r.Matcher.Len() < d.minLen {
			d.minLen = r.Matcher.Len()
		}
	}
	return d
}

// Classify returns the tag of the first matching rule.
func (d *Dispatcher[T]) Classify(b []byte) T {
	if len(d.rules) == 0 || len(b) < d.minLen {
		return d.unknown
	}
	for _, r := range d.rules {
		if r.Matcher.Matches(b) {
			return r.Tag
		}
	}
	return d.unknown
}

// MinLen returns the shortest buffer any rule can match.
func (d *Dispatcher[T]) MinLen() int { return d.minLen }
