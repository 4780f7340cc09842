package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func obj(toks ...Token) []Token {
	out := append([]Token{{Kind: KindBeginObject}}, toks...)
	return append(out, Token{Kind: KindEndObject})
}

func arr(toks ...Token) []Token {
	out := append([]Token{{Kind: KindBeginArray}}, toks...)
	return append(out, Token{Kind: KindEndArray})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func num(n string) Token { return Token{Kind: KindNumber, Number: n} }

func flat(parts ...[]Token) []Token {
	var out []Token
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecodeDocument(t *testing.T) {
	toks := obj(flat([]Token{key("a"), num("1"), key("b")}, arr(Token{Kind: KindBool, Bool: true}, Token{Kind: KindNull}), []Token{key("c")}, arr())...)
	v, err := DecodeDocument(&sliceSource{toks: toks})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1"), "b": []any{true, nil}, "c": []any{}}, v)

	_, err = DecodeDocument(&sliceSource{toks: append(arr(), arr()...)})
	assert.ErrorIs(t, err, ErrTrailingData)

	_, err = DecodeDocument(&sliceSource{toks: []Token{{Kind: KindBeginArray}, num("1")}})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = DecodeDocument(&sliceSource{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestEnforce_Duplicates(t *testing.T) {
	toks := obj(flat([]Token{key("x")}, obj(key("k"), num("1"), key("k"), num("2")))...)

	_, err := DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "duplicate_key", ie.Code)
	assert.Equal(t, "/x/k", ie.Path)

	var got []SimpleIssue
	_, err = DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { got = append(got, si) },
	}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/x/k", got[0].Path)

	_, err = DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{}))
	assert.NoError(t, err)
}

func TestEnforce_SameKeyInSiblings(t *testing.T) {
	toks := arr(flat(obj(key("k"), num("1")), obj(key("k"), num("2")))...)
	_, err := DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{OnDuplicate: DupError}))
	assert.NoError(t, err)
}

func TestEnforce_MaxDepth(t *testing.T) {
	toks := obj(flat([]Token{key("a")}, arr(num("0"), Token{Kind: KindBeginArray}, Token{Kind: KindEndArray}))...)

	_, err := DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 2}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "depth_exceeded", ie.Code)
	assert.Equal(t, "/a/1", ie.Path)

	_, err = DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: 3}))
	assert.NoError(t, err)

	_, err = DecodeDocument(WrapWithEnforcement(&sliceSource{toks: arr(arr()...)}, EnforceOptions{MaxDepth: 1}))
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "/0", ie.Path)
}

func TestPathNode(t *testing.T) {
	var root *pathNode
	assert.Equal(t, "/", root.String())
	p := root.child("a/b").child("~c").child("0")
	assert.Equal(t, "/a~1b/~0c/0", p.String())
	assert.Equal(t, "/a~1b", p.parent.parent.String())
}

func TestEnforce_DeepNesting(t *testing.T) {
	const depth = 100000
	toks := make([]Token, 0, 2*depth+2)
	for i := 0; i <= depth; i++ {
		toks = append(toks, Token{Kind: KindBeginArray})
	}
	for i := 0; i <= depth; i++ {
		toks = append(toks, Token{Kind: KindEndArray})
	}

	_, err := DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{MaxDepth: depth}))
	var ie IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "depth_exceeded", ie.Code)
	assert.Len(t, ie.Path, 2*depth, "one /0 segment per level below the root")

	v, err := DecodeDocument(WrapWithEnforcement(&sliceSource{toks: toks}, EnforceOptions{}))
	require.NoError(t, err)
	assert.IsType(t, []any{}, v)
}
