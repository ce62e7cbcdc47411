// Package canon provides deterministic canonicalization and fingerprinting of
// nested structured values.
//
// Object keys are order-insensitive: maps are emitted with keys sorted at every
// nesting level. Array order is preserved, since it carries meaning.
//
// Fingerprints are fast xxhash digests of the canonical text and are used as an
// equality proxy for small record sets. They are not a security boundary.
package canon
