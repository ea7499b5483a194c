package store

import "strings"

// inClause builds a "col IN (?, ?, ...)" fragment and the matching args
// slice, substituted into queryTemplate at %s.
func inClause(queryTemplate string, ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return sprintf(queryTemplate, strings.Join(placeholders, ",")), args
}

func sprintf(tmpl, s string) string {
	return strings.Replace(tmpl, "%s", s, 1)
}
