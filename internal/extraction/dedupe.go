package extraction

import (
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DedupeAndRank merges near-duplicate candidates, keeping the higher
// confidence of each similar pair, then orders by confidence descending.
// Ties preserve relative order.
func DedupeAndRank(candidates []Candidate, threshold float64) []Candidate {
	unique := make([]Candidate, 0, len(candidates))

	for _, candidate := range candidates {
		duplicate := false
		for i, kept := range unique {
			if !similarTitles(candidate.Title, kept.Title, threshold) {
				continue
			}
			if candidate.Confidence > kept.Confidence {
				unique = slices.Delete(unique, i, i+1)
				unique = append(unique, candidate)
			}
			duplicate = true
			break
		}
		if !duplicate {
			unique = append(unique, candidate)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Confidence > unique[j].Confidence
	})

	return unique
}

// similarTitles reports whether two titles refer to the same task:
// exact case-insensitive match, containment when both exceed 10
// characters, or normalized edit distance above the threshold.
func similarTitles(a, b string, threshold float64) bool {
	t1 := strings.ToLower(strings.TrimSpace(a))
	t2 := strings.ToLower(strings.TrimSpace(b))

	if t1 == t2 {
		return true
	}

	if len(t1) > 10 && len(t2) > 10 {
		if strings.Contains(t1, t2) || strings.Contains(t2, t1) {
			return true
		}
	}

	maxLen := max(len([]rune(t1)), len([]rune(t2)))
	if maxLen == 0 {
		return true
	}

	distance := levenshtein.ComputeDistance(t1, t2)
	similarity := 1.0 - float64(distance)/float64(maxLen)

	return similarity > threshold
}
