// Package codec converts between synthesized sszero values and their wire
// forms: the consensus JSON convention (decimal strings for wide integers,
// 0x-prefixed hex for bytes and bits) and deterministic CBOR.
package codec
