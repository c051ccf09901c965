package command

import "strings"

// Matching constants.
const (
	// matchThreshold is the minimum similarity score a fuzzy candidate
	// must strictly exceed to be accepted.
	matchThreshold = 0.3

	// substringBonus is added to a candidate's score when the keyword
	// phrase appears verbatim inside the input. Phrase containment is a
	// much stronger signal than token overlap alone.
	substringBonus = 0.5

	// exactScore is reported for exact keyword matches.
	exactScore = 1.0
)

// Matcher resolves free-text input to at most one registered action.
//
// Resolution is a two-stage process: an exact keyword lookup that wins
// outright, then a token-set similarity scan over every registered
// keyword phrase. The matcher holds no mutable state and is safe for
// concurrent use.
type Matcher struct {
	registry *Registry
}

// NewMatcher creates a matcher over the given registry.
func NewMatcher(registry *Registry) *Matcher {
	return &Matcher{registry: registry}
}

// Match resolves input text to a MatchResult.
//
// Algorithm:
//  1. Normalise the input (lowercase, trim).
//  2. If the normalised input equals a registered keyword exactly, that
//     action wins immediately, regardless of what fuzzy scoring would say.
//  3. Otherwise score every keyword phrase by Jaccard similarity over
//     whitespace token sets, adding substringBonus when the phrase occurs
//     verbatim in the input.
//  4. The highest score wins, but only if it strictly exceeds both the
//     running best and matchThreshold. Ties keep the first-registered
//     keyword because iteration follows registration order.
//
// Empty input never matches: its token set is empty (similarity 0) and a
// non-empty phrase can't be a substring of it.
func (m *Matcher) Match(text string) MatchResult {
	result := MatchResult{Input: text}

	norm := Normalize(text)
	if norm == "" {
		return result
	}

	// Exact path: priority over fuzzy matching.
	if action, ok := m.registry.Lookup(norm); ok {
		result.Action = action
		result.Score = exactScore
		return result
	}

	// Fuzzy path.
	inputTokens := tokenSet(norm)

	for _, keyword := range m.registry.Keywords() {
		score := jaccard(tokenSet(keyword), inputTokens)

		if strings.Contains(norm, keyword) {
			score += substringBonus
		}

		if score > result.Score && score > matchThreshold {
			action, _ := m.registry.Lookup(keyword)
			result.Action = action
			result.Score = score
		}
	}

	return result
}

// tokenSet splits a phrase into its set of whitespace-separated words.
func tokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// jaccard computes |intersection| / |union| of two token sets.
// Two empty sets score 0, not 1: an empty input matches nothing.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
