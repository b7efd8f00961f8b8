// Package sexp decodes the serialized R object graph.
//
// The serialization stream is a sequence of self-describing items. Each
// item starts with a 32-bit flags word packing the type tag, the levels
// field, and the has-attributes / has-tag / is-object bits; the payload and
// an optional attribute pairlist follow. The Decoder walks this recursively
// and produces Node values, a closed tagged variant over the object kinds a
// reader can represent without the R runtime.
//
// Interned objects (symbols, namespace and package markers) are appended to
// a per-decode reference table as they are first read; later REFSXP records
// resolve against it by 1-based index. The table belongs to a single
// Decoder and dies with the decode call, so concurrent decodes never share
// state.
//
// Object kinds that would need the R runtime to mean anything (closures,
// environments, promises, S4 instances, external pointers, ...) are never
// emulated: payload-bearing ones fail the decode with a positioned
// UnsupportedType error, and the payload-less pseudo-tokens (global or base
// environment markers, the missing-argument marker) decode to Unsupported
// nodes so surrounding structures can still be inspected.
package sexp
