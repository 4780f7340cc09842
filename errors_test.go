package sszero_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/sszero"
)

func TestIssues_Error(t *testing.T) {
	iss := sszero.Issues{
		{Path: "/a", Code: sszero.CodeShapeMismatch, Hint: "expected mapping"},
		{Path: "/b", Code: sszero.CodeLeafValidation},
	}
	assert.Equal(t, "shape_mismatch at /a (expected mapping); leaf_validation_failed at /b", iss.Error())

	iss = append(iss, sszero.Issue{Path: "/c", Code: sszero.CodeShapeMismatch}, sszero.Issue{Path: "/d", Code: sszero.CodeShapeMismatch})
	assert.Contains(t, iss.Error(), "; ... (total 4)")
	assert.NotContains(t, iss.Error(), "/d")

	assert.Equal(t, "", sszero.Issues{}.Error())
}

func TestIssues_IsAndUnwrap(t *testing.T) {
	var err error = sszero.Issues{
		{Path: "/", Code: sszero.CodeDuplicateKey},
		{Path: "/x", Code: sszero.CodeParseError, Cause: io.ErrUnexpectedEOF},
	}
	assert.ErrorIs(t, err, sszero.ErrParse)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, sszero.ErrShapeMismatch)

	wrapped := errors.Join(errors.New("loading"), err)
	iss, ok := sszero.AsIssues(wrapped)
	require.True(t, ok)
	assert.Len(t, iss, 2)
	assert.Equal(t, []string{sszero.CodeDuplicateKey, sszero.CodeParseError}, sszero.Codes(wrapped))
}

func TestAsIssues_NotIssues(t *testing.T) {
	_, ok := sszero.AsIssues(nil)
	assert.False(t, ok)
	_, ok = sszero.AsIssues(io.EOF)
	assert.False(t, ok)
	assert.Nil(t, sszero.Codes(io.EOF))
}

func TestAppendIssues(t *testing.T) {
	var dst sszero.Issues
	dst = sszero.AppendIssues(dst)
	assert.NotNil(t, dst)
	dst = sszero.AppendIssues(dst, sszero.Issue{Code: sszero.CodeTruncated})
	assert.Len(t, dst, 1)
}

func TestPathRef(t *testing.T) {
	root := sszero.RootPath()
	assert.Equal(t, "/", root.Pointer())
	p := root.Field("a/b").Field("~x").Index(2)
	assert.Equal(t, "/a~1b/~0x/2", p.Pointer())
	assert.Equal(t, "/", root.Pointer(), "children do not affect the parent")

	iss := p.Issue(sszero.CodeShapeMismatch, "msg", "got", "string")
	assert.Equal(t, "/a~1b/~0x/2", iss.Path)
	assert.Equal(t, map[string]any{"got": "string"}, iss.Params)
	assert.Nil(t, root.Issue(sszero.CodeShapeMismatch, "msg").Params)
}
