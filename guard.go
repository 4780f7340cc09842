package sszero

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"github.com/reoring/sszero/i18n"
)

// ValidateLeaf checks an override for a leaf descriptor (uint, bool, bit and
// byte sequences). It never converts: a value of the wrong primitive
// category is rejected. Accepted forms are
//
//   - uint: any Go integer type, *big.Int, or a json.Number holding an
//     integer, non-negative and below 2^Bits
//   - bool: bool
//   - bit sequences: Bitfield
//   - byte sequences: []byte
//
// Fixed-length kinds require the exact length, bounded kinds a length no
// greater than the limit.
func ValidateLeaf(t Type, v any) error {
	return validateLeaf(t, v, rootPath())
}

func validateLeaf(t Type, v any, p PathRef) error {
	if nilDescriptor(t) {
		return invalidDescriptor(p, "nil descriptor")
	}
	switch d := t.(type) {
	case *Uint:
		return checkUint(d, v, p)
	case *Boolean:
		if _, ok := v.(bool); !ok {
			return leafIssue(p, "expected bool", "got", typeName(v))
		}
		return nil
	case *BitVector:
		return checkBits(v, d.Length, true, p)
	case *BitList:
		return checkBits(v, d.Limit, false, p)
	case *ByteVector:
		return checkBytes(v, d.Length, true, p)
	case *ByteList:
		return checkBytes(v, d.Limit, false, p)
	case *Vector, *List, *Container:
		return leafIssue(p, t.Kind().String()+" is not a leaf kind")
	default:
		return unknownKind(p, t)
	}
}

func checkUint(d *Uint, v any, p PathRef) error {
	var bitLen int
	switch n := v.(type) {
	case uint8:
		bitLen = bits.Len8(n)
	case uint16:
		bitLen = bits.Len16(n)
	case uint32:
		bitLen = bits.Len32(n)
	case uint64:
		bitLen = bits.Len64(n)
	case uint:
		bitLen = bits.Len(n)
	case int, int8, int16, int32, int64:
		i := signedValue(n)
		if i < 0 {
			return leafIssue(p, "negative value for unsigned integer", "got", i)
		}
		bitLen = bits.Len64(uint64(i))
	case *big.Int:
		if n == nil {
			return leafIssue(p, "nil *big.Int")
		}
		if n.Sign() < 0 {
			return leafIssue(p, "negative value for unsigned integer", "got", n.String())
		}
		bitLen = n.BitLen()
	case json.Number:
		if !jsonInteger(string(n)) {
			return leafIssue(p, "json number is not an integer", "got", string(n))
		}
		x, ok := new(big.Int).SetString(string(n), 10)
		if !ok {
			return leafIssue(p, "json number is not an integer", "got", string(n))
		}
		if x.Sign() < 0 {
			return leafIssue(p, "negative value for unsigned integer", "got", string(n))
		}
		bitLen = x.BitLen()
	default:
		return leafIssue(p, "expected unsigned integer", "got", typeName(v))
	}
	if bitLen > d.Bits {
		return leafIssue(p, fmt.Sprintf("value exceeds %d-bit width", d.Bits), "bits", d.Bits, "bitLen", bitLen)
	}
	return nil
}

// jsonInteger reports whether s is an integer in JSON number syntax: an
// optional minus, then 0 or a digit sequence without leading zeros.
func jsonInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	if s[0] == '0' {
		return len(s) == 1
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func signedValue(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func checkBits(v any, n int, fixed bool, p PathRef) error {
	bf, ok := v.(Bitfield)
	if !ok {
		return leafIssue(p, "expected Bitfield", "got", typeName(v))
	}
	return checkLen(bf.Len(), n, fixed, p)
}

func checkBytes(v any, n int, fixed bool, p PathRef) error {
	b, ok := v.([]byte)
	if !ok {
		return leafIssue(p, "expected []byte", "got", typeName(v))
	}
	return checkLen(len(b), n, fixed, p)
}

func checkLen(got, n int, fixed bool, p PathRef) error {
	if fixed && got != n {
		return leafIssue(p, fmt.Sprintf("length %d, want exactly %d", got, n), "length", n, "got", got)
	}
	if !fixed && got > n {
		return leafIssue(p, fmt.Sprintf("length %d exceeds limit %d", got, n), "limit", n, "got", got)
	}
	return nil
}

func leafIssue(p PathRef, hint string, kv ...any) error {
	iss := p.Issue(CodeLeafValidation, i18n.T(CodeLeafValidation, nil), kv...)
	iss.Hint = hint
	return Issues{iss}
}

func unknownKind(p PathRef, t Type) error {
	iss := p.Issue(CodeUnknownTypeKind, i18n.T(CodeUnknownTypeKind, nil), "type", typeName(t))
	iss.Hint = "descriptor is not one of the known kinds"
	return Issues{iss}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
