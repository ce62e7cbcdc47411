package compare

import (
	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// Result is the verdict of CompareProposals.
type Result struct {
	// Matches is true when both fingerprint sets are equal.
	Matches bool
	// MissingInActual holds expected fingerprints absent from actual, in
	// expected order.
	MissingInActual []string
	// UnexpectedInActual holds actual fingerprints absent from expected, in
	// actual order.
	UnexpectedInActual []string
	// Duplicates holds fingerprints that occur more than once on either side.
	Duplicates []string
}

// CompareProposals compares two record collections as sets of fingerprints.
// The "_validation" override key is not part of a record's fingerprint.
func CompareProposals(expected, actual []record.Record) Result {
	expHashes, expDup := fingerprints(expected)
	actHashes, actDup := fingerprints(actual)

	res := Result{
		MissingInActual:    difference(expHashes, actHashes),
		UnexpectedInActual: difference(actHashes, expHashes),
		Duplicates:         union(expDup, actDup),
	}
	res.Matches = len(res.MissingInActual) == 0 && len(res.UnexpectedInActual) == 0

	return res
}

// Fingerprint returns the fingerprint of rec without its override key.
func Fingerprint(rec record.Record) string {
	return canon.Fingerprint(map[string]any(rec.Content()))
}

// fingerprints returns the unique fingerprints in first-seen order plus the
// ones seen more than once.
func fingerprints(records []record.Record) ([]string, []string) {
	seen := make(map[string]int, len(records))

	var (
		unique []string
		dups   []string
	)

	for _, r := range records {
		h := Fingerprint(r)

		seen[h]++
		switch seen[h] {
		case 1:
			unique = append(unique, h)
		case 2:
			dups = append(dups, h)
		}
	}

	return unique, dups
}

func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, h := range b {
		in[h] = struct{}{}
	}

	var out []string

	for _, h := range a {
		if _, ok := in[h]; !ok {
			out = append(out, h)
		}
	}

	return out
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))

	var out []string

	for _, list := range [][]string{a, b} {
		for _, h := range list {
			if _, ok := seen[h]; ok {
				continue
			}

			seen[h] = struct{}{}
			out = append(out, h)
		}
	}

	return out
}
