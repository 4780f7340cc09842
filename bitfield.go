package sszero

import (
	"bytes"
	"errors"
	"strings"
)

// Bitfield is an immutable sequence of bits with an explicit bit length.
// Bit i lives in byte i/8 at position i%8 (least significant bit first).
// The zero value is an empty bitfield.
type Bitfield struct {
	data []byte
	n    int
}

var (
	errBitfieldShort    = errors.New("sszero: bitfield buffer shorter than bit length")
	errBitfieldLong     = errors.New("sszero: bitfield buffer longer than bit length")
	errBitfieldTrailing = errors.New("sszero: bitfield has bits set past its length")
)

// NewBitfield returns n zero bits.
func NewBitfield(n int) Bitfield {
	if n < 0 {
		n = 0
	}
	return Bitfield{data: make([]byte, byteLen(n)), n: n}
}

// BitfieldFromBytes interprets b as n bits. b must hold exactly enough
// bytes for n bits and no bit at or past n may be set. b is copied.
func BitfieldFromBytes(b []byte, n int) (Bitfield, error) {
	if n < 0 {
		n = 0
	}
	want := byteLen(n)
	if len(b) < want {
		return Bitfield{}, errBitfieldShort
	}
	if len(b) > want {
		return Bitfield{}, errBitfieldLong
	}
	if r := n % 8; r != 0 && b[want-1]>>r != 0 {
		return Bitfield{}, errBitfieldTrailing
	}
	data := make([]byte, want)
	copy(data, b)
	return Bitfield{data: data, n: n}, nil
}

// BitfieldFromBools packs bits into a Bitfield.
func BitfieldFromBools(bits []bool) Bitfield {
	bf := NewBitfield(len(bits))
	for i, v := range bits {
		if v {
			bf.data[i/8] |= 1 << (i % 8)
		}
	}
	return bf
}

// Len returns the number of bits.
func (b Bitfield) Len() int { return b.n }

// Bit reports bit i; out of range bits read as false.
func (b Bitfield) Bit(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.data[i/8]&(1<<(i%8)) != 0
}

// With returns a copy of b with bit i set to v. Out of range indexes
// return b unchanged.
func (b Bitfield) With(i int, v bool) Bitfield {
	if i < 0 || i >= b.n {
		return b
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	if v {
		data[i/8] |= 1 << (i % 8)
	} else {
		data[i/8] &^= 1 << (i % 8)
	}
	return Bitfield{data: data, n: b.n}
}

// Bytes returns a copy of the packed bits.
func (b Bitfield) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Bools unpacks the bits.
func (b Bitfield) Bools() []bool {
	out := make([]bool, b.n)
	for i := range out {
		out[i] = b.Bit(i)
	}
	return out
}

// Count returns the number of set bits.
func (b Bitfield) Count() int {
	c := 0
	for i := 0; i < b.n; i++ {
		if b.Bit(i) {
			c++
		}
	}
	return c
}

// Equal reports whether a and b hold the same bits.
func (b Bitfield) Equal(o Bitfield) bool {
	return b.n == o.n && bytes.Equal(b.data, o.data)
}

// String renders the bits in index order, e.g. "0b0100".
func (b Bitfield) String() string {
	sb := &strings.Builder{}
	sb.Grow(b.n + 2)
	sb.WriteString("0b")
	for i := 0; i < b.n; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func byteLen(bits int) int { return (bits + 7) / 8 }

// MarshalText renders the bitfield like String, so Bitfields inside
// generic JSON or YAML output stay readable.
func (b Bitfield) MarshalText() ([]byte, error) { return []byte(b.String()), nil }
