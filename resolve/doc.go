// Package resolve turns type expressions and schema files into canonical
// sszero descriptors.
//
// Overview
//   - Expressions: uintN, bool, byte, BytesN, Uint[bits, auto|native|big], Bitvector[N], Bitlist[N],
//     ByteVector[N], ByteList[N], Vector[T, N], List[T, N] and Container{name: T, ...}.
//   - Registry: named definitions that expressions may reference; cycles are rejected.
//   - Schema files: YAML, JSON or JSONC documents with a top-level `types` mapping.
//
// Entry points
//   - NewRegistry(): empty registry; Define/DefineContainer add named types.
//   - Resolve(ref): a defined name or an inline expression to a checked sszero.Type (cached).
//   - LoadFile/LoadYAML/LoadJSONC: bulk definitions, resolved eagerly so errors surface at load time.
//   - ParseExpr(src): the expression syntax tree, for tooling.
//
// File layout (roles)
//   - parse.go: lexer and parser producing internal/ir nodes.
//   - registry.go: definitions, lowering to descriptors and the resolve cache.
//   - load.go: schema file loading with duplicate-key detection.
package resolve
