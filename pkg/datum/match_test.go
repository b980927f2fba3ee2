package datum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher(t *testing.T) {
	m := NewMatcher(
		[]byte{0xff, 0xff, 0xfc, 0x00},
		[]byte{0x16, 0x03, 0x00, 0x00},
		0,
	)

	assert.True(t, m.Matches([]byte{0x16, 0x03, 0x01, 0x99}))
	assert.True(t, m.Matches([]byte{0x16, 0x03, 0x03, 0x00, 0xaa}))
	assert.False(t, m.Matches([]byte{0x16, 0x03, 0x04, 0x00}))
	assert.False(t, m.Matches([]byte{0x16, 0x03, 0x01}))
	assert.Equal(t, 4, m.Len())
}

func TestMatcherOffset(t *testing.T) {
	m := NewMatcher([]byte{0xff}, []byte{0x0a}, 3)
	assert.Equal(t, 4, m.Len())
	assert.True(t, m.Matches([]byte{1, 2, 3, 0x0a}))
	assert.False(t, m.Matches([]byte{0x0a, 2, 3}))
}

// Flipping any bit covered by the mask must break the match, and flipping a
// bit outside it must not.
func TestMatcherMutation(t *testing.T) {
	mask := []byte{0xf0, 0x00, 0xff, 0xff}
	value := []byte{0xc0, 0x00, 0x00, 0x01}
	m := NewMatcher(mask, value, 0)

	base := []byte{0xc5, 0x77, 0x00, 0x01}
	assert.True(t, m.Matches(base))

	for i := range base {
		for bit := 0; bit < 8; bit++ {
			b := append([]byte(nil), base...)
			b[i] ^= 1 << bit
			covered := mask[i]&(1<<bit) != 0
			assert.Equal(t, !covered, m.Matches(b), "byte %d bit %d", i, bit)
		}
	}
}

func TestMatcherLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewMatcher([]byte{0xff, 0xff}, []byte{0x00}, 0)
	})
}

func TestPrefixMatcher(t *testing.T) {
	m := PrefixMatcher([]byte("HTTP/1."))
	assert.True(t, m.Matches([]byte("HTTP/1.1 200 OK")))
	assert.False(t, m.Matches([]byte("HTTP/2 ")))
}

func TestDatumMatches(t *testing.T) {
	d := New([]byte("POST /x"))
	assert.True(t, d.Matches(PrefixMatcher([]byte("POST"))))
	assert.Equal(t, 7, d.Length())
	assert.False(t, Null().Matches(PrefixMatcher(nil)))
}

type tag int

const (
	tagUnknown tag = iota
	tagA
	tagB
)

func TestDispatcherPriority(t *testing.T) {
	// both rules match 0x01 0x01 ...; the earlier one wins
	broad := NewMatcher([]byte{0xff, 0x00}, []byte{0x01, 0x00}, 0)
	narrow := NewMatcher([]byte{0xff, 0xff}, []byte{0x01, 0x01}, 0)

	d := NewDispatcher(tagUnknown, Rule[tag]{broad, tagA}, Rule[tag]{narrow, tagB})
	assert.Equal(t, tagA, d.Classify([]byte{0x01, 0x01}))

	d = NewDispatcher(tagUnknown, Rule[tag]{narrow, tagB}, Rule[tag]{broad, tagA})
	assert.Equal(t, tagB, d.Classify([]byte{0x01, 0x01}))
	assert.Equal(t, tagA, d.Classify([]byte{0x01, 0x02}))
	assert.Equal(t, tagUnknown, d.Classify([]byte{0x02, 0x01}))
}

func TestDispatcherShortInput(t *testing.T) {
	d := NewDispatcher(tagUnknown,
		Rule[tag]{NewMatcher([]byte{0, 0, 0, 0}, []byte{0, 0, 0, 0}, 0), tagA},
		Rule[tag]{NewMatcher([]byte{0, 0, 0, 0, 0, 0}, []byte{0, 0, 0, 0, 0, 0}, 0), tagB},
	)
	assert.Equal(t, 4, d.MinLen())
	assert.Equal(t, tagUnknown, d.Classify([]byte{1, 2, 3}))
	assert.Equal(t, tagA, d.Classify([]byte{1, 2, 3, 4}))

	empty := NewDispatcher[tag](tagUnknown)
	assert.Equal(t, tagUnknown, empty.Classify([]byte{1, 2, 3, 4}))
}
