package codelens

import (
	"github.com/fernbridge/codelens/internal/assemble"
	"github.com/fernbridge/codelens/internal/store"
)

// SymbolHeader is a symbol's identity and location without its source body,
// backing get_file_symbols's lightweight listing.
type SymbolHeader struct {
	ID        string
	Name      string
	Kind      string
	Exported  bool
	StartLine int
	EndLine   int
}

// GetFileSymbols lists every symbol declared in file_path, optionally
// restricted to exported symbols, backing the get_file_symbols tool.
func (q *QueryBuilder) GetFileSymbols(filePath string, exportedOnly bool) ([]SymbolHeader, error) {
	syms, err := q.engine.Store.SymbolsByFile(filePath, exportedOnly)
	if err != nil {
		return nil, err
	}
	headers := make([]SymbolHeader, len(syms))
	for i, s := range syms {
		headers[i] = SymbolHeader{ID: s.ID, Name: s.Name, Kind: s.Kind, Exported: s.Exported, StartLine: s.StartLine, EndLine: s.EndLine}
	}
	return headers, nil
}

// GetUsageExamples returns recorded call/construct/reference sites for
// every symbol matching symbol_name, backing the get_usage_examples tool.
func (q *QueryBuilder) GetUsageExamples(name, file string, limit int) ([]*store.UsageExample, error) {
	syms, err := q.resolveSymbols(name, file)
	if err != nil {
		return nil, err
	}
	limit = withDefault(limit, defaultSearchLimit)

	var examples []*store.UsageExample
	for _, sym := range syms {
		exs, err := q.engine.Store.UsageExamplesFor(sym.ID, limit-len(examples))
		if err != nil {
			return nil, err
		}
		examples = append(examples, exs...)
		if len(examples) >= limit {
			break
		}
	}
	return examples, nil
}

// HydrateResult is hydrate_symbols's result: Symbols is populated in the
// default "full" mode, Context in "context" mode.
type HydrateResult struct {
	Symbols []*store.Symbol
	Context []*assemble.Item
}

// HydrateSymbols resolves a batch of symbol ids previously surfaced by
// search_code or a graph tool back either to their full records ("full",
// the default) or to a freshly assembled context bundle rooted at those
// ids ("context"), backing the hydrate_symbols tool.
func (q *QueryBuilder) HydrateSymbols(ids []string, mode string) (*HydrateResult, error) {
	syms, err := q.engine.Store.SymbolsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if mode != "context" {
		return &HydrateResult{Symbols: syms}, nil
	}
	items, err := q.engine.Assembler.Assemble(syms, 0)
	if err != nil {
		return nil, err
	}
	return &HydrateResult{Context: items}, nil
}
