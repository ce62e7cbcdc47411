package match

import (
	"sort"

	"github.com/the-project-b/ritagraph-sub004/internal/common"
)

// Thresholds used when ranking suggestions.
const (
	// DefaultSuggestThreshold is the minimum score for a suggestion.
	DefaultSuggestThreshold = 0.5
	// DefaultSuggestLimit caps the number of suggestions returned.
	DefaultSuggestLimit = 3
	// DefaultAmbiguityThreshold is the score difference that marks ambiguity.
	DefaultAmbiguityThreshold = 0.1
)

// Candidate is a known name scored against a query.
type Candidate struct {
	Name string
	// Normalized is Name after NormalizeKey.
	Normalized string
	// Score is the normalized Levenshtein similarity (0-1).
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Rank scores every option against query and returns them sorted by score
// descending, ties broken by name.
func Rank(query string, options []string) CandidateList {
	norm := NormalizeKey(query)

	candidates := make(CandidateList, 0, len(options))
	for _, opt := range options {
		optNorm := NormalizeKey(opt)
		candidates = append(candidates, Candidate{
			Name:       opt,
			Normalized: optNorm,
			Score:      Similarity(norm, optNorm),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns options that look like query. A clear winner is returned
// alone; when the top candidates are within DefaultAmbiguityThreshold of each
// other up to DefaultSuggestLimit of them are returned.
func Suggest(query string, options []string) []string {
	ranked := Rank(query, options).AboveThreshold(DefaultSuggestThreshold)

	best := ranked.Best()
	if best == nil {
		return nil
	}

	if !ranked.IsAmbiguous(DefaultAmbiguityThreshold) {
		return []string{best.Name}
	}

	return ranked.Top(DefaultSuggestLimit).Names()
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	best, ok := common.First(c)
	if !ok {
		return nil
	}

	return &best
}

// IsAmbiguous reports whether the top two candidates are within threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Names returns the candidate names in rank order.
func (c CandidateList) Names() []string {
	if len(c) == 0 {
		return nil
	}

	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}
