// Package rewrite turns raw query text into the normalized, expanded,
// intent-tagged form the hybrid retriever scores against, per spec.md
// section 4.4.
package rewrite

import (
	"strings"
	"unicode"
)

// normalize splits camelCase/snake_case/kebab-case/dotted identifiers and
// the `::`/`->` path separators into lowercase words, leaving
// double-quoted spans untouched (including their case) so an exact phrase
// search still works after rewriting.
func normalize(raw string) (terms []string, quoted []string) {
	for _, span := range splitQuoted(raw) {
		if span.isQuoted {
			quoted = append(quoted, span.text)
			continue
		}
		terms = append(terms, splitIdentifier(span.text)...)
	}
	return terms, quoted
}

type spanPart struct {
	text     string
	isQuoted bool
}

// splitQuoted breaks raw into alternating quoted/unquoted spans on
// double-quote boundaries. An unterminated trailing quote is treated as
// plain text rather than silently dropped.
func splitQuoted(raw string) []spanPart {
	var parts []spanPart
	var cur strings.Builder
	inQuote := false
	for _, r := range raw {
		if r == '"' {
			if cur.Len() > 0 {
				parts = append(parts, spanPart{text: cur.String(), isQuoted: inQuote})
				cur.Reset()
			}
			inQuote = !inQuote
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, spanPart{text: cur.String(), isQuoted: false})
	}
	return parts
}

// pathSeparators are treated as hard word boundaries in addition to the
// case/underscore/hyphen transitions splitIdentifier already detects.
var pathSeparators = map[rune]bool{
	':': true, '-': true, '>': true, '/': true, '.': true, '_': true,
	' ': true, '\t': true, '\n': true,
}

// splitIdentifier lowercases and splits one unquoted span into words,
// breaking on explicit separators and camelCase/PascalCase transitions.
func splitIdentifier(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if pathSeparators[r] {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) && unicode.IsUpper(r) {
				flush()
			} else if i > 1 && unicode.IsUpper(prev) && unicode.IsLower(r) && unicode.IsUpper(runes[i-2]) {
				last := cur[len(cur)-1]
				cur = cur[:len(cur)-1]
				flush()
				cur = append(cur, last)
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
