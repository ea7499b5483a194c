// Package assemble builds the token-budgeted context bundle the context
// assembler tool returns: root inclusion, neighborhood expansion, auto-
// included type dependencies, oversized-body simplification, all bounded by
// a token budget, per spec.md section 4.6.
package assemble

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

// counter lazily loads the configured BPE encoding once per process, per
// spec.md section 9's "process-level shared BPE instance... lazy global" —
// loading it is not free and every call site shares the same instance.
func counter(encoding string) (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding(encoding)
	})
	return enc, encErr
}

// CountTokens returns the number of tokens text encodes to under encoding
// (e.g. "o200k_base"). Falls back to a byte/4 estimate if the encoding
// cannot be loaded, rather than failing the whole assembly.
func CountTokens(encoding, text string) int {
	t, err := counter(encoding)
	if err != nil || t == nil {
		return len(text) / 4
	}
	return len(t.Encode(text, nil, nil))
}
