package rewrite

import (
	"strings"

	"github.com/surgebase/porter2"
)

// stemExclusions never get stemmed even past the minimum length, mirroring
// standardbeagle-lci's stemmer exclusion list for short, already-canonical
// technical terms that Porter2 would otherwise mangle.
var stemExclusions = map[string]bool{
	"api": true, "http": true, "sql": true, "css": true, "xml": true, "json": true,
}

// stemmer wraps porter2.Stem with the "skip below minimum length, skip
// exclusions" guard, adopted from standardbeagle-lci/internal/semantic's
// Stemmer in place of spec.md's plain suffix-stripping description.
type stemmer struct {
	enabled   bool
	minLength int
}

func newStemmer(enabled bool, minLength int) *stemmer {
	if minLength <= 0 {
		minLength = 3
	}
	return &stemmer{enabled: enabled, minLength: minLength}
}

func (s *stemmer) stem(word string) string {
	if !s.enabled || len(word) < s.minLength || stemExclusions[strings.ToLower(word)] {
		return word
	}
	return porter2.Stem(word)
}

func (s *stemmer) stemAll(words []string) []string {
	if !s.enabled {
		return words
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = s.stem(w)
	}
	return out
}
