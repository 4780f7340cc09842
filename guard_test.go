package sszero_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/sszero"
)

func pow2(n uint) *big.Int { return new(big.Int).Lsh(big.NewInt(1), n) }

func TestValidateLeaf(t *testing.T) {
	u256 := &sszero.Uint{Bits: 256}
	cases := []struct {
		name string
		typ  sszero.Type
		v    any
		ok   bool
	}{
		{"uint8 max", u8(), uint8(255), true},
		{"uint8 from int", u8(), 255, true},
		{"uint8 overflow", u8(), 256, false},
		{"uint8 negative", u8(), -1, false},
		{"uint8 json number", u8(), json.Number("200"), true},
		{"uint8 json fraction", u8(), json.Number("1.5"), false},
		{"uint8 json negative", u8(), json.Number("-3"), false},
		{"uint8 json zero", u8(), json.Number("0"), true},
		{"uint8 json plus sign", u8(), json.Number("+5"), false},
		{"uint8 json leading zero", u8(), json.Number("05"), false},
		{"uint8 json exponent", u8(), json.Number("1e2"), false},
		{"uint8 json empty", u8(), json.Number(""), false},
		{"uint8 float", u8(), float64(1), false},
		{"uint8 string", u8(), "1", false},
		{"uint8 bool", u8(), true, false},
		{"uint8 big overflow", u8(), pow2(8), false},
		{"uint8 nil big", u8(), (*big.Int)(nil), false},
		{"uint64 max", &sszero.Uint{Bits: 64}, ^uint64(0), true},
		{"uint256 max", u256, new(big.Int).Sub(pow2(256), big.NewInt(1)), true},
		{"uint256 overflow", u256, pow2(256), false},
		{"uint256 negative", u256, big.NewInt(-1), false},
		{"bool", &sszero.Boolean{}, true, true},
		{"bool from int", &sszero.Boolean{}, 1, false},
		{"bitvector", &sszero.BitVector{Length: 4}, sszero.NewBitfield(4), true},
		{"bitvector short", &sszero.BitVector{Length: 4}, sszero.NewBitfield(3), false},
		{"bitvector bools", &sszero.BitVector{Length: 1}, []bool{true}, false},
		{"bitlist empty", &sszero.BitList{Limit: 4}, sszero.NewBitfield(0), true},
		{"bitlist full", &sszero.BitList{Limit: 4}, sszero.NewBitfield(4), true},
		{"bitlist over", &sszero.BitList{Limit: 4}, sszero.NewBitfield(5), false},
		{"bytevector", &sszero.ByteVector{Length: 2}, []byte{1, 2}, true},
		{"bytevector short", &sszero.ByteVector{Length: 2}, []byte{1}, false},
		{"bytevector string", &sszero.ByteVector{Length: 2}, "ab", false},
		{"bytelist empty", &sszero.ByteList{Limit: 2}, []byte{}, true},
		{"bytelist over", &sszero.ByteList{Limit: 2}, []byte{1, 2, 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := sszero.ValidateLeaf(tc.typ, tc.v)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, sszero.ErrLeafValidation)
			assert.Equal(t, []string{sszero.CodeLeafValidation}, sszero.Codes(err))
		})
	}
}

func TestValidateLeaf_Composite(t *testing.T) {
	err := sszero.ValidateLeaf(&sszero.List{Elem: u8(), Limit: 1}, []any{})
	require.ErrorIs(t, err, sszero.ErrLeafValidation)
	iss, _ := sszero.AsIssues(err)
	assert.Equal(t, "list is not a leaf kind", iss[0].Hint)

	assert.ErrorIs(t, sszero.ValidateLeaf(bogusType{}, 1), sszero.ErrUnknownTypeKind)
	assert.ErrorIs(t, sszero.ValidateLeaf((*sszero.Uint)(nil), 1), sszero.ErrInvalidDescriptor)
}

func TestValidateLeaf_Params(t *testing.T) {
	err := sszero.ValidateLeaf(&sszero.ByteList{Limit: 2}, []byte{1, 2, 3})
	iss, ok := sszero.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"limit": 2, "got": 3}, iss[0].Params)
	assert.Equal(t, "value violates type constraints", iss[0].Message)
}
