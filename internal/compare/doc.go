// Package compare decides whether an actual collection of proposals matches
// the expected one and, when it does not, explains the difference.
//
// Equivalence uses set semantics over record fingerprints: order of records
// and key order inside records do not matter, and duplicate records collapse
// to one. Duplicates are surfaced in Result.Duplicates but never change the
// verdict.
//
// On a mismatch an Aligner pairs expected and actual records for reporting
// and RenderDiff produces a line diff per pair. GreedyAligner is a fast,
// non-optimal heuristic; it is a reporting aid and has no influence on
// Result.Matches.
package compare
