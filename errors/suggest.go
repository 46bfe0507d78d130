package errors

import (
	"slices"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions returned.
const MaxSuggestions = 3

// Suggestion is a candidate correction and its edit distance from the input.
type Suggestion struct {
	Value    string
	Distance int
}

// suggestionThreshold scales the allowed edit distance with the name length
// so that short names only match near-identical candidates.
func suggestionThreshold(name string) int {
	switch n := len([]rune(name)); {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	default:
		return 3
	}
}

// SuggestSimilar returns up to MaxSuggestions candidates close to target,
// closest first. Comparison is case-insensitive and exact matches are skipped.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	lower := strings.ToLower(target)
	limit := suggestionThreshold(target)

	var out []Suggestion
	seen := map[string]bool{}
	for _, c := range candidates {
		if c == "" || seen[c] || strings.ToLower(c) == lower {
			continue
		}
		seen[c] = true
		if d := editDistance(lower, strings.ToLower(c)); d <= limit {
			out = append(out, Suggestion{Value: c, Distance: d})
		}
	}
	slices.SortFunc(out, func(a, b Suggestion) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Value, b.Value)
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a "Did you mean" hint.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// editDistance is the Levenshtein distance between a and b, computed over
// runes with a single rolling row.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag = row[i]
			row[i] = next
		}
	}
	return row[len(ra)]
}
