package rewrite

import (
	"strings"

	"github.com/fernbridge/codelens/internal/config"
)

// Result is the rewritten form of a query, ready for the hybrid retriever's
// three search branches and scoring pass.
type Result struct {
	Raw          string
	Terms        []string // normalized, split, synonym/acronym-expanded
	Stemmed      []string // Terms after stemming, same order
	Quoted       []string // verbatim quoted phrases, case preserved
	Intent       Intent
	Target       string // Callers(name)'s name, empty otherwise
	KeywordQuery string // space-joined Terms then Quoted, fed to the inverted index
}

// Rewriter holds the config-derived stemmer/fuzzy matcher so Rewrite can run
// without re-reading config on every call.
type Rewriter struct {
	cfg   *config.Config
	stem  *stemmer
	fuzzy *fuzzyMatcher
}

// New builds a Rewriter from resolved configuration.
func New(cfg *config.Config) *Rewriter {
	return &Rewriter{
		cfg:   cfg,
		stem:  newStemmer(cfg.StemmingEnabled, cfg.StemMinLength),
		fuzzy: newFuzzyMatcher(cfg.FuzzyEnabled, cfg.FuzzyThreshold),
	}
}

// Rewrite runs the full normalize/expand/stem/classify pipeline from
// spec.md section 4.4 over raw query text.
func (r *Rewriter) Rewrite(raw string) Result {
	intent, target := classifyIntent(raw)

	terms, quoted := normalize(raw)
	terms = r.expandWithFuzzyFallback(terms)

	stemmed := r.stem.stemAll(terms)

	return Result{
		Raw:          raw,
		Terms:        terms,
		Stemmed:      stemmed,
		Quoted:       quoted,
		Intent:       intent,
		Target:       target,
		KeywordQuery: strings.Join(append(append([]string{}, terms...), quoted...), " "),
	}
}

// expandWithFuzzyFallback runs synonym then acronym expansion; for any term
// that has no exact entry in either curated table, it tries a fuzzy match
// against both tables' keys and, on a hit, expands using the matched key's
// entry instead of the raw (possibly misspelled) term.
func (r *Rewriter) expandWithFuzzyFallback(terms []string) []string {
	corrected := make([]string, len(terms))
	for i, t := range terms {
		corrected[i] = t
		if !r.cfg.SynonymsEnabled && !r.cfg.AcronymsEnabled {
			continue
		}
		if _, ok := synonyms[t]; ok {
			continue
		}
		if _, ok := acronyms[t]; ok {
			continue
		}
		if key, ok := r.fuzzy.closestKey(t, synonymKeys()); ok {
			corrected[i] = key
			continue
		}
		if key, ok := r.fuzzy.closestKey(t, acronymKeys()); ok {
			corrected[i] = key
		}
	}

	out := corrected
	if r.cfg.SynonymsEnabled {
		out = expandSynonyms(out)
	}
	if r.cfg.AcronymsEnabled {
		out = expandAcronyms(out)
	}
	// Keep the caller's original terms present even when a fuzzy
	// correction replaced them for expansion purposes, so an exact
	// keyword match against the literal typed term still works.
	final := append([]string{}, terms...)
	for _, t := range out {
		if !contains(final, t) {
			final = append(final, t)
		}
	}
	return final
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
