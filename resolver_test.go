package sszero_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reoring/sszero"
)

func TestResolverFunc(t *testing.T) {
	errNope := errors.New("nope")
	r := sszero.ResolverFunc(func(ref string) (sszero.Type, error) {
		if ref == "Flag" {
			return &sszero.Boolean{}, nil
		}
		return nil, errNope
	})

	v, err := sszero.SynthesizeRef(r, "Flag", true)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = sszero.SynthesizeRef(r, "Other", nil)
	assert.ErrorIs(t, err, errNope)
	assert.ErrorContains(t, err, `resolving "Other"`)
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sszero.SetLogger(zap.New(core))
	t.Cleanup(func() { sszero.SetLogger(nil) })

	_, err := sszero.Synthesize(sszero.MustContainer(field("a", u8())), map[string]any{"b": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("ignoring undeclared override key").Len())

	sszero.SetLogger(nil)
	assert.NotNil(t, sszero.Logger())
}
