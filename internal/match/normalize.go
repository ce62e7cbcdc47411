package match

import (
	"strings"
	"unicode"
)

// NormalizeKey folds a transformer key or record path for fuzzy matching:
// camelCase is split, everything is lowercased and separators are dropped,
// so "changedField", "changed-field" and "Changed_Field" all agree.
func NormalizeKey(s string) string {
	return strings.Join(Tokenize(s), "")
}

// Tokenize splits s into lowercase tokens on separators and camelCase
// boundaries.
//   - "mutationQueryPropertyPath" -> ["mutation", "query", "property", "path"]
//   - "transformer-template-today" -> ["transformer", "template", "today"]
//   - "relatedUserID" -> ["related", "user", "id"]
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if isSeparator(prev) || !unicode.IsUpper(r) {
		return false
	}

	// "changedField" splits before 'F'.
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser" splits before 'P'.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
