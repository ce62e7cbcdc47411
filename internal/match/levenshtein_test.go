package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a    string
		b    string
		want int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},
		{"lowercase", "lowercse", 1},
		{"changedField", "changedFeild", 2},
		{"größe", "grösse", 2},
		{"日付", "日時", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("trim", "trim"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("trim", "trin"), 1e-9)
	assert.InDelta(t, 0.5, Similarity("日付", "日時"), 1e-9)
}

func TestKeySimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, KeySimilarity("changedField", "changed-field"), 1e-9)
	assert.InDelta(t, 1.0, KeySimilarity("date_only", "date-only"), 1e-9)
	assert.Less(t, KeySimilarity("lowercase", "uppercase"), 1.0)
}

func BenchmarkLevenshtein(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Levenshtein("mutationQueryPropertyPath", "mutationVariablesPath")
	}
}
