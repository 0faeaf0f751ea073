package console

import (
	"github.com/agext/levenshtein"
)

// Similarity scores how close two strings are, in [0, 1]. The scoring
// algorithm is pluggable; only the threshold and tie-break policy below are
// load-bearing.
type Similarity func(a, b string) float64

// DefaultSimilarity is normalized Levenshtein similarity.
func DefaultSimilarity(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// suggestThreshold is the minimum similarity for a typo suggestion.
const suggestThreshold = 0.5

// Suggest returns the candidate most similar to input. Only scores at or
// above the threshold qualify; on ties the first-seen candidate wins.
func Suggest(input string, candidates []string, sim Similarity) (string, bool) {
	if sim == nil {
		sim = DefaultSimilarity
	}
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := sim(input, c)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore >= suggestThreshold {
		return best, true
	}
	return "", false
}
