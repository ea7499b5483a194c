package rewrite

import "github.com/hbollon/go-edlib"

// fuzzyMatcher widens the curated synonym/acronym tables with near-miss
// matches (a misspelled acronym, a transposed letter) before the exact
// curated map gives up, adopted from
// standardbeagle-lci/internal/semantic/fuzzy_matcher.go's Jaro-Winkler
// wrapper around go-edlib.
type fuzzyMatcher struct {
	enabled   bool
	threshold float64
}

func newFuzzyMatcher(enabled bool, threshold float64) *fuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.82
	}
	return &fuzzyMatcher{enabled: enabled, threshold: threshold}
}

// closestKey returns the candidate key with the highest Jaro-Winkler
// similarity to term, if any candidate clears the configured threshold.
func (fm *fuzzyMatcher) closestKey(term string, candidates map[string]bool) (string, bool) {
	if !fm.enabled {
		return "", false
	}
	var best string
	var bestScore float64
	for cand := range candidates {
		score, err := edlib.StringsSimilarity(term, cand, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = cand
		}
	}
	if bestScore >= fm.threshold {
		return best, true
	}
	return "", false
}

func synonymKeys() map[string]bool {
	keys := make(map[string]bool, len(synonyms))
	for k := range synonyms {
		keys[k] = true
	}
	return keys
}

func acronymKeys() map[string]bool {
	keys := make(map[string]bool, len(acronyms))
	for k := range acronyms {
		keys[k] = true
	}
	return keys
}
