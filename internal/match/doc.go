// Package match provides fuzzy name matching for configuration keys and
// record paths: key normalization, Levenshtein similarity and candidate
// ranking used to build "did you mean" suggestions.
package match
