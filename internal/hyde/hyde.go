// Package hyde defines the optional hypothetical-document-expansion hook
// used by the query rewriter's vector-branch query, per spec.md section 7.
// No generation-model dependency exists anywhere in the retrieved corpus,
// so the default implementation falls back to the original query unchanged.
package hyde

// Expander turns a short query into a longer hypothetical document whose
// embedding should sit closer to real matching code than the raw query's
// embedding would.
type Expander interface {
	Expand(query string) (string, error)
	Enabled() bool
}

// NoOp is the default expander: Expand returns query unchanged, and Enabled
// reports false so callers skip the stage and embed the raw query directly.
type NoOp struct{}

func (NoOp) Expand(query string) (string, error) { return query, nil }
func (NoOp) Enabled() bool                        { return false }
