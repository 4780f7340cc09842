package sszero

// Package sszero provides:
//
// - Zero-value synthesis for SSZ-style type descriptors (Synthesize)
// - Partial overrides merged over the defaults, checked leaf by leaf (ValidateLeaf)
// - A stable error model via Issues (JSON Pointer, code, message)
// - Presence metadata through SynthesizeWithMeta (seen, defaulted, ignored paths)
// - Override document loading with duplicate-key/depth/size enforcement (LoadOverride)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Type expressions and schema files live under resolve/, wire conversions under codec/,
//   and the CLI under cmd/sszero.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  reg := resolve.NewRegistry()
//  t, err := reg.Resolve("Container{epoch: uint64, root: Bytes32}")
//  ov, err := sszero.LoadOverride(sszero.JSONBytes(data), sszero.LoadOpt{MaxDepth: 64})
//  v, err := sszero.Synthesize(t, ov)
//  dm, err := sszero.SynthesizeWithMeta(t, ov, sszero.Options{Unknown: sszero.UnknownStrict})
