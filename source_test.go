package sszero_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/sszero"
)

func TestLoadOverride(t *testing.T) {
	v, err := sszero.LoadOverride(sszero.JSONBytes([]byte(`{"a": 18446744073709551616, "b": [true, null], "c": []}`)), sszero.LoadOpt{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": json.Number("18446744073709551616"),
		"b": []any{true, nil},
		"c": []any{},
	}, v)
}

func TestLoadOverride_FeedsSynthesize(t *testing.T) {
	typ := sszero.MustContainer(field("n", &sszero.Uint{Bits: 16}), field("ok", &sszero.Boolean{}))
	ov, err := sszero.LoadOverride(sszero.JSONReader(strings.NewReader(`{"n": 513}`)), sszero.LoadOpt{})
	require.NoError(t, err)
	got, err := sszero.Synthesize(typ, ov)
	require.NoError(t, err)
	assert.Equal(t, sszero.Record{{Name: "n", Value: json.Number("513")}, {Name: "ok", Value: false}}, got)
}

func TestLoadOverride_JSONC(t *testing.T) {
	v, err := sszero.LoadOverride(sszero.JSONCBytes([]byte("{\n  // epoch only\n  \"epoch\": 1,\n}")), sszero.LoadOpt{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"epoch": json.Number("1")}, v)
}

func TestLoadOverride_DuplicateKeys(t *testing.T) {
	doc := []byte(`{"a": 1, "a": 2}`)

	_, err := sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{OnDuplicateKey: sszero.Error})
	require.ErrorIs(t, err, sszero.ErrParse)
	iss, _ := sszero.AsIssues(err)
	assert.Equal(t, sszero.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/a", iss[0].Path)

	var warned []sszero.Issue
	v, err := sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{
		OnDuplicateKey: sszero.Warn,
		OnWarning:      func(it sszero.Issue) { warned = append(warned, it) },
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("2")}, v, "last value wins")
	require.Len(t, warned, 1)
	assert.Equal(t, sszero.CodeDuplicateKey, warned[0].Code)
	assert.Equal(t, "duplicate key", warned[0].Message)

	_, err = sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{OnDuplicateKey: sszero.Ignore})
	assert.NoError(t, err)
}

func TestLoadOverride_MaxDepth(t *testing.T) {
	doc := []byte(`{"a":{"b":{"c":1}}}`)
	_, err := sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{MaxDepth: 2})
	require.ErrorIs(t, err, sszero.ErrDepthExceeded)
	iss, _ := sszero.AsIssues(err)
	assert.Equal(t, "/a/b", iss[0].Path)

	_, err = sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{MaxDepth: 3})
	assert.NoError(t, err)
}

func TestLoadOverride_DeeplyNested(t *testing.T) {
	doc := bytes.Repeat([]byte("["), 200000)

	_, err := sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{MaxDepth: 64})
	require.ErrorIs(t, err, sszero.ErrDepthExceeded)

	_, err = sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{})
	assert.ErrorIs(t, err, sszero.ErrParse)
}

func TestLoadOverride_MaxBytes(t *testing.T) {
	doc := []byte(`[1, 2, 3]`)
	_, err := sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{MaxBytes: 4})
	require.Error(t, err)
	assert.Equal(t, []string{sszero.CodeTruncated}, sszero.Codes(err))

	_, err = sszero.LoadOverride(sszero.JSONBytes(doc), sszero.LoadOpt{MaxBytes: int64(len(doc))})
	assert.NoError(t, err)
}

func TestLoadOverride_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":    "",
		"trailing": `{} {}`,
		"broken":   `{"a": }`,
		"open":     `[1, 2`,
		"no colon": `{"a" 1}`,
		"no comma": `[1 2]`,
		"dangling": `{"a":1,}`,
		"run-on":   `{"a":1 "b":2}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := sszero.LoadOverride(sszero.JSONBytes([]byte(doc)), sszero.LoadOpt{})
			require.ErrorIs(t, err, sszero.ErrParse)
			assert.Equal(t, []string{sszero.CodeParseError}, sszero.Codes(err))
		})
	}

	_, err := sszero.LoadOverride(sszero.Source{}, sszero.LoadOpt{})
	assert.ErrorIs(t, err, sszero.ErrParse)

	_, err = sszero.LoadOverride(sszero.JSONBytes(nil), sszero.LoadOpt{})
	iss, _ := sszero.AsIssues(err)
	assert.Equal(t, "empty document", iss[0].Hint)
}
