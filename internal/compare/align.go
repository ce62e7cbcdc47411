package compare

import (
	"sort"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// NoIndex marks the missing side of an unpaired record.
const NoIndex = -1

// Pair links an expected and an actual record for diff rendering. One of the
// indices is NoIndex for a record with no counterpart.
type Pair struct {
	ExpectedIndex int
	ActualIndex   int
	Score         float64
}

// IsMatched reports whether both sides are present.
func (p Pair) IsMatched() bool {
	return p.ExpectedIndex != NoIndex && p.ActualIndex != NoIndex
}

// Aligner pairs expected records with actual records. Every index of either
// side appears in exactly one returned pair.
type Aligner interface {
	Align(expected, actual []record.Record) []Pair
}

// Weights scores agreeing fields. Fields not listed use DefaultObject when
// the value is an object or array and DefaultScalar otherwise.
type Weights struct {
	Fields        map[string]float64
	DefaultScalar float64
	DefaultObject float64
}

// DefaultWeights favor the fields that identify a proposal.
func DefaultWeights() Weights {
	return Weights{
		Fields: map[string]float64{
			"changedField":              10,
			"relatedUserId":             8,
			"mutationQueryPropertyPath": 6,
			"changeType":                4,
			"newValue":                  3,
			"mutationVariables":         3,
		},
		DefaultScalar: 1,
		DefaultObject: 2,
	}
}

func (w Weights) weight(field string, v any) float64 {
	if fw, ok := w.Fields[field]; ok {
		return fw
	}

	switch v.(type) {
	case map[string]any, record.Record, []any:
		return w.DefaultObject
	default:
		return w.DefaultScalar
	}
}

// Score sums the weights of the top-level fields present and equal on both
// records. Fields missing on either side contribute nothing.
func (w Weights) Score(expected, actual record.Record) float64 {
	var score float64

	for field, ev := range expected.Content() {
		av, ok := actual[field]
		if !ok || !canon.Equal(ev, av) {
			continue
		}

		score += w.weight(field, ev)
	}

	return score
}

// GreedyAligner commits the highest-scoring unused pair until no pair with a
// positive score remains. It does not search for an optimal matching.
type GreedyAligner struct {
	Weights Weights
}

// NewGreedyAligner returns an aligner using DefaultWeights.
func NewGreedyAligner() *GreedyAligner {
	return &GreedyAligner{Weights: DefaultWeights()}
}

// Align pairs records greedily. Committed pairs come first in non-increasing
// score order (ties by expected then actual index), followed by unpaired
// expected records and then unpaired actual records, each in input order.
func (g *GreedyAligner) Align(expected, actual []record.Record) []Pair {
	var candidates []Pair

	for i, e := range expected {
		for j, a := range actual {
			if s := g.Weights.Score(e, a); s > 0 {
				candidates = append(candidates, Pair{ExpectedIndex: i, ActualIndex: j, Score: s})
			}
		}
	}

	sort.SliceStable(candidates, func(x, y int) bool {
		cx, cy := candidates[x], candidates[y]
		if cx.Score != cy.Score {
			return cx.Score > cy.Score
		}

		if cx.ExpectedIndex != cy.ExpectedIndex {
			return cx.ExpectedIndex < cy.ExpectedIndex
		}

		return cx.ActualIndex < cy.ActualIndex
	})

	usedExp := make([]bool, len(expected))
	usedAct := make([]bool, len(actual))
	pairs := make([]Pair, 0, max(len(expected), len(actual)))

	for _, c := range candidates {
		if usedExp[c.ExpectedIndex] || usedAct[c.ActualIndex] {
			continue
		}

		usedExp[c.ExpectedIndex] = true
		usedAct[c.ActualIndex] = true
		pairs = append(pairs, c)
	}

	for i, used := range usedExp {
		if !used {
			pairs = append(pairs, Pair{ExpectedIndex: i, ActualIndex: NoIndex})
		}
	}

	for j, used := range usedAct {
		if !used {
			pairs = append(pairs, Pair{ExpectedIndex: NoIndex, ActualIndex: j})
		}
	}

	return pairs
}
