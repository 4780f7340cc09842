package codec

import (
	"encoding/json"
	"math/big"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/reoring/sszero"
)

// encMode is the CBOR encoder configured with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Equal values always produce identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		BigIntDec:      cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes a synthesized value of type t. Uints become CBOR
// integers (bignums above 64 bits), byte sequences byte strings, bit
// vectors their packed bytes, bit lists their packed bytes with the
// delimiter bit, and containers maps.
func MarshalCBOR(t sszero.Type, v any) ([]byte, error) {
	cv, err := toCBOR(t, v, sszero.RootPath())
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(cv)
}

// UnmarshalCBOR decodes CBOR produced by MarshalCBOR into v. Maps decode as
// map[string]any and bignums as *big.Int.
func UnmarshalCBOR(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

func toCBOR(t sszero.Type, v any, p sszero.PathRef) (any, error) {
	switch d := t.(type) {
	case *sszero.Uint:
		switch x := v.(type) {
		case json.Number:
			if n := parseInteger(string(x)); n != nil {
				return n, nil
			}
		case *big.Int, uint64, uint8, uint16, uint32, uint, int, int8, int16, int32, int64:
			return x, nil
		}
	case *sszero.Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case *sszero.ByteVector, *sszero.ByteList:
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	case *sszero.BitVector:
		if bf, ok := v.(sszero.Bitfield); ok {
			return bf.Bytes(), nil
		}
	case *sszero.BitList:
		if bf, ok := v.(sszero.Bitfield); ok {
			return bitlistToSSZ(bf), nil
		}
	case *sszero.Vector:
		return seqToCBOR(d.Elem, v, p)
	case *sszero.List:
		return seqToCBOR(d.Elem, v, p)
	case *sszero.Container:
		rec, ok := v.(sszero.Record)
		if !ok {
			break
		}
		out := make(map[string]any, len(rec))
		for _, e := range rec {
			ft, ok := d.Field(e.Name)
			if !ok {
				return nil, valueIssue(d, e.Value, p.Field(e.Name))
			}
			cv, err := toCBOR(ft, e.Value, p.Field(e.Name))
			if err != nil {
				return nil, err
			}
			out[e.Name] = cv
		}
		return out, nil
	}
	return nil, valueIssue(t, v, p)
}

func seqToCBOR(elem sszero.Type, v any, p sszero.PathRef) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, valueIssue(&sszero.List{Elem: elem}, v, p)
	}
	out := make([]any, len(items))
	for i, it := range items {
		cv, err := toCBOR(elem, it, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}
