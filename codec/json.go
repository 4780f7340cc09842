package codec

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/reoring/sszero"
	"github.com/reoring/sszero/i18n"
)

// FromJSON maps a JSON-shaped override tree (as returned by
// sszero.LoadOverride) onto the value forms sszero.Synthesize accepts for t:
//
//   - uint: integer json.Number, decimal or 0x-hex string, or integral
//     float64 become uint64 (native) or *big.Int
//   - byte sequences: 0x-hex strings become []byte
//   - bit vectors: 0x-hex strings (raw bits) or arrays of bools become Bitfield
//   - bit lists: 0x-hex strings carrying a trailing delimiter bit, or arrays
//     of bools, become Bitfield
//
// Vectors, lists and containers are mapped element by element; undeclared
// container keys are copied through. Values of an unexpected JSON type are
// left verbatim so that Synthesize reports the mismatch. Malformed hex is
// reported here as leaf_validation_failed.
func FromJSON(t sszero.Type, v any) (any, error) {
	return fromJSON(t, v, sszero.RootPath())
}

func fromJSON(t sszero.Type, v any, p sszero.PathRef) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch d := t.(type) {
	case *sszero.Uint:
		return uintFromJSON(d, v), nil
	case *sszero.Boolean:
		return v, nil
	case *sszero.ByteVector, *sszero.ByteList:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		return decodeHex(s, p)
	case *sszero.BitVector:
		return bitsFromJSON(v, p, func(b []byte) (sszero.Bitfield, error) {
			return sszero.BitfieldFromBytes(b, d.Length)
		})
	case *sszero.BitList:
		return bitsFromJSON(v, p, bitlistFromSSZ)
	case *sszero.Vector:
		return seqFromJSON(d.Elem, v, p)
	case *sszero.List:
		return seqFromJSON(d.Elem, v, p)
	case *sszero.Container:
		m, ok := v.(map[string]any)
		if !ok {
			return v, nil
		}
		out := make(map[string]any, len(m))
		for k, fv := range m {
			ft, known := d.Field(k)
			if !known {
				out[k] = fv
				continue
			}
			mv, err := fromJSON(ft, fv, p.Field(k))
			if err != nil {
				return nil, err
			}
			out[k] = mv
		}
		return out, nil
	}
	return v, nil
}

func seqFromJSON(elem sszero.Type, v any, p sszero.PathRef) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return v, nil
	}
	out := make([]any, len(items))
	for i, it := range items {
		mv, err := fromJSON(elem, it, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = mv
	}
	return out, nil
}

func uintFromJSON(d *sszero.Uint, v any) any {
	var n *big.Int
	switch x := v.(type) {
	case json.Number:
		n = parseInteger(string(x))
	case string:
		n = parseInteger(x)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < 1<<63 {
			n = big.NewInt(int64(x))
		}
	}
	if n == nil {
		return v
	}
	if d.Native() && n.Sign() >= 0 && n.IsUint64() {
		return n.Uint64()
	}
	return n
}

// parseInteger accepts an optionally signed decimal integer or a 0x-prefixed
// hex integer.
func parseInteger(s string) *big.Int {
	base := 10
	if h, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = h, 16
	}
	if s == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil
	}
	return n
}

func decodeHex(s string, p sszero.PathRef) (any, error) {
	h, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return s, nil
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, hexIssue(p, err)
	}
	return b, nil
}

func bitsFromJSON(v any, p sszero.PathRef, fromBytes func([]byte) (sszero.Bitfield, error)) (any, error) {
	switch x := v.(type) {
	case string:
		b, err := decodeHex(x, p)
		if err != nil {
			return nil, err
		}
		raw, ok := b.([]byte)
		if !ok {
			return v, nil
		}
		bf, err := fromBytes(raw)
		if err != nil {
			iss := p.Issue(sszero.CodeLeafValidation, i18n.T(sszero.CodeLeafValidation, nil))
			iss.Hint = err.Error()
			iss.Cause = err
			return nil, sszero.Issues{iss}
		}
		return bf, nil
	case []any:
		bools := make([]bool, len(x))
		for i, it := range x {
			b, ok := it.(bool)
			if !ok {
				return v, nil
			}
			bools[i] = b
		}
		return sszero.BitfieldFromBools(bools), nil
	}
	return v, nil
}

var errBitlistDelimiter = errors.New("codec: bitlist has no delimiter bit")

// bitlistFromSSZ strips the delimiter bit that marks the length of an SSZ
// bitlist: the highest set bit of the last byte.
func bitlistFromSSZ(b []byte) (sszero.Bitfield, error) {
	if len(b) == 0 || b[len(b)-1] == 0 {
		return sszero.Bitfield{}, errBitlistDelimiter
	}
	last := len(b) - 1
	n := 8*last + bits.Len8(b[last]) - 1
	data := make([]byte, (n+7)/8)
	copy(data, b)
	if n%8 == 0 {
		return sszero.BitfieldFromBytes(data, n)
	}
	data[len(data)-1] &^= 1 << (n % 8)
	return sszero.BitfieldFromBytes(data, n)
}

// bitlistToSSZ appends the delimiter bit after the last bit of bf.
func bitlistToSSZ(bf sszero.Bitfield) []byte {
	n := bf.Len()
	out := make([]byte, n/8+1)
	copy(out, bf.Bytes())
	out[n/8] |= 1 << (n % 8)
	return out
}

func hexIssue(p sszero.PathRef, err error) error {
	iss := p.Issue(sszero.CodeLeafValidation, i18n.T(sszero.CodeLeafValidation, nil))
	iss.Hint = "invalid hex string"
	iss.Cause = err
	return sszero.Issues{iss}
}

// ToJSON maps a synthesized value of type t to a JSON-shaped tree: uint64
// and Go integers become json.Number, *big.Int a decimal string, byte
// sequences and bit vectors 0x-hex, bit lists 0x-hex with the delimiter
// bit, vectors and lists []any, containers a Record in declaration order.
func ToJSON(t sszero.Type, v any) (any, error) {
	return toJSON(t, v, sszero.RootPath())
}

func toJSON(t sszero.Type, v any, p sszero.PathRef) (any, error) {
	switch d := t.(type) {
	case *sszero.Uint:
		switch x := v.(type) {
		case *big.Int:
			return x.String(), nil
		case json.Number:
			return x, nil
		case uint64:
			return json.Number(strconv.FormatUint(x, 10)), nil
		case uint8, uint16, uint32, uint, int, int8, int16, int32, int64:
			return json.Number(fmt.Sprint(x)), nil
		}
	case *sszero.Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case *sszero.ByteVector, *sszero.ByteList:
		if b, ok := v.([]byte); ok {
			return "0x" + hex.EncodeToString(b), nil
		}
	case *sszero.BitVector:
		if bf, ok := v.(sszero.Bitfield); ok {
			return "0x" + hex.EncodeToString(bf.Bytes()), nil
		}
	case *sszero.BitList:
		if bf, ok := v.(sszero.Bitfield); ok {
			return "0x" + hex.EncodeToString(bitlistToSSZ(bf)), nil
		}
	case *sszero.Vector:
		return seqToJSON(d.Elem, v, p)
	case *sszero.List:
		return seqToJSON(d.Elem, v, p)
	case *sszero.Container:
		rec, ok := v.(sszero.Record)
		if !ok {
			break
		}
		out := make(sszero.Record, len(rec))
		for i, e := range rec {
			ft, ok := d.Field(e.Name)
			if !ok {
				return nil, valueIssue(d, e.Value, p.Field(e.Name))
			}
			mv, err := toJSON(ft, e.Value, p.Field(e.Name))
			if err != nil {
				return nil, err
			}
			out[i] = sszero.Entry{Name: e.Name, Value: mv}
		}
		return out, nil
	}
	return nil, valueIssue(t, v, p)
}

func seqToJSON(elem sszero.Type, v any, p sszero.PathRef) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, valueIssue(&sszero.List{Elem: elem}, v, p)
	}
	out := make([]any, len(items))
	for i, it := range items {
		mv, err := toJSON(elem, it, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = mv
	}
	return out, nil
}

func valueIssue(t sszero.Type, v any, p sszero.PathRef) error {
	iss := p.Issue(sszero.CodeShapeMismatch, i18n.T(sszero.CodeShapeMismatch, nil), "got", fmt.Sprintf("%T", v))
	if t == nil {
		iss.Hint = "nil type"
	} else {
		iss.Hint = fmt.Sprintf("value does not match %s", t.Kind())
	}
	return sszero.Issues{iss}
}
