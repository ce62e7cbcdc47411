// Package validation resolves layered comparison configuration and applies
// it to records: ignored paths, transformers keyed by field path and value
// normalization.
//
// # Layers
//
// Configuration comes from up to three layers, global, per-example and
// per-record (the reserved "_validation" key of an expected record). For
// every facet the most specific layer that provides it wins outright. Facets
// are never merged: an explicitly empty transformers map in a lower layer
// disables every transformer inherited from above.
//
// # Pipeline
//
// Before two records are compared the reconciler:
//
//  1. runs add transformers on the expected record (ApplyAddTransformers),
//  2. strips ignored paths from both records (StripIgnored),
//  3. runs transform transformers on present fields of both records,
//  4. applies normalization (Normalize).
package validation
