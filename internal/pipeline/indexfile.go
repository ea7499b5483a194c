package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/fernbridge/codelens/internal/embedder"
	"github.com/fernbridge/codelens/internal/extract"
	"github.com/fernbridge/codelens/internal/fulltext"
	"github.com/fernbridge/codelens/internal/idgen"
	"github.com/fernbridge/codelens/internal/store"
	"github.com/fernbridge/codelens/internal/vectorstore"
)

// Indexer wires the three stores and the extractor frontend together for
// one-file-at-a-time indexing. All methods are safe to call concurrently
// from multiple goroutines provided each uses its own *sql.DB connection
// pool entry — see Pipeline.indexFiles for the worker pool that calls them.
type Indexer struct {
	Store             *store.Store
	FullText          *fulltext.Index
	Vectors           *vectorstore.Store
	Embedder          embedder.Embedder
	MaxUsagePerSymbol int
}

// FileOutcome reports what happened to one file during indexing.
type FileOutcome int

const (
	OutcomeIndexed FileOutcome = iota
	OutcomeUnchanged
	OutcomeSkipped
)

// IndexFile runs the full per-file indexing procedure from spec.md section
// 4.3: fingerprint check, cascading delete of stale projections, syntactic
// extraction, symbol/edge/usage-example writes, and — last — the
// fingerprint write that makes the file's new state durable.
func (ix *Indexer) IndexFile(path string) (FileOutcome, error) {
	lang, ok := extract.LanguageForFile(path)
	if !ok {
		return OutcomeSkipped, nil
	}

	mtimeNS, sizeBytes, err := fileStat(path)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: stat %s: %w", path, err)
	}
	existing, err := ix.Store.Fingerprint(path)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: fingerprint %s: %w", path, err)
	}
	if existing != nil && existing.MtimeNS == mtimeNS && existing.SizeBytes == sizeBytes {
		return OutcomeUnchanged, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: read %s: %w", path, err)
	}

	if err := ix.deleteProjections(path); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: delete stale projections for %s: %w", path, err)
	}

	result, err := extract.File(lang, source)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: extract %s: %w", path, err)
	}

	idByName, err := ix.writeSymbols(path, lang, result.Symbols)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: write symbols %s: %w", path, err)
	}
	if err := ix.Store.ReplaceImports(path, storeImports(path, result.Imports)); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: write imports %s: %w", path, err)
	}
	if err := ix.Store.ReplaceTODOs(path, storeTODOs(path, result.TODOs)); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: write todos %s: %w", path, err)
	}

	if err := resolveCalls(ix.Store, path, result.Calls, idByName); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: resolve calls %s: %w", path, err)
	}
	if err := resolveReferences(ix.Store, path, result.References, idByName); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: resolve references %s: %w", path, err)
	}
	if err := resolveTypeEdges(ix.Store, path, result.TypeEdges, idByName); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: resolve type edges %s: %w", path, err)
	}
	if err := ix.writeUsageExamples(path, source, idByName, result.Calls); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: write usage examples %s: %w", path, err)
	}
	if err := ix.writeTestLink(path); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: write test link %s: %w", path, err)
	}

	if err := ix.Store.UpsertFingerprint(&store.Fingerprint{Path: path, MtimeNS: mtimeNS, SizeBytes: sizeBytes}); err != nil {
		return OutcomeSkipped, fmt.Errorf("pipeline: upsert fingerprint %s: %w", path, err)
	}
	return OutcomeIndexed, nil
}

// deleteProjections removes the file's rows from all three stores, the
// first half of the delete-then-insert cycle spec.md section 4.1 mandates
// for every re-index.
func (ix *Indexer) deleteProjections(path string) error {
	if err := ix.Store.DeleteFileData(path); err != nil {
		return err
	}
	if err := ix.FullText.DeleteFile(path); err != nil {
		return err
	}
	if err := ix.Vectors.DeleteFile(path); err != nil {
		return err
	}
	return nil
}

// DeleteFile removes every projection for a file that no longer exists on
// disk, including its fingerprint — the cascade triggered when the scan
// step finds a stored fingerprint with no matching file.
func (ix *Indexer) DeleteFile(path string) error {
	if err := ix.deleteProjections(path); err != nil {
		return err
	}
	return ix.Store.DeleteFingerprint(path)
}

func (ix *Indexer) writeSymbols(path, lang string, symbols []extract.Symbol) (map[string]string, error) {
	idByName := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		offset := int64(sym.StartByte)
		if sym.Exported {
			offset = 0
		}
		id := idgen.SymbolID(path, sym.Name, offset, sym.Exported)
		idByName[sym.Name] = id

		if err := ix.Store.UpsertSymbol(&store.Symbol{
			ID: id, FilePath: path, Language: lang, Kind: sym.Kind, Name: sym.Name,
			Exported: sym.Exported, StartByte: sym.StartByte, EndByte: sym.EndByte,
			StartLine: sym.StartLine, EndLine: sym.EndLine, Source: sym.Source,
		}); err != nil {
			return nil, err
		}

		if err := ix.indexSymbolText(id, path, sym); err != nil {
			return nil, err
		}
		if err := ix.embedSymbol(id, path, sym); err != nil {
			return nil, err
		}
		for _, dec := range sym.Decorators {
			if err := ix.Store.AddDecorator(id, dec); err != nil {
				return nil, err
			}
		}
	}
	return idByName, nil
}

func storeImports(path string, imports []extract.Import) []store.Import {
	out := make([]store.Import, len(imports))
	for i, imp := range imports {
		out[i] = store.Import{FilePath: path, ImportPath: imp.Path, Line: imp.Line}
	}
	return out
}

func storeTODOs(path string, todos []extract.TODO) []store.TODOItem {
	out := make([]store.TODOItem, len(todos))
	for i, t := range todos {
		out[i] = store.TODOItem{FilePath: path, Text: t.Text, Line: t.Line}
	}
	return out
}

func (ix *Indexer) indexSymbolText(id, path string, sym extract.Symbol) error {
	return ix.FullText.IndexSymbol(fulltext.Doc{
		SymbolID: id, FilePath: path, Exported: sym.Exported,
		Name: sym.Name, Signature: firstLine(sym.Source), DocComment: sym.DocComment, Body: sym.Source,
	})
}

func (ix *Indexer) embedSymbol(id, path string, sym extract.Symbol) error {
	if ix.Embedder == nil {
		return nil
	}
	text := sym.Name + " " + sym.DocComment + " " + sym.Source
	vec, err := ix.Embedder.Embed(text)
	if err != nil {
		return err
	}
	return ix.Vectors.Upsert(id, path, vec)
}

func firstLine(source string) string {
	for _, line := range strings.Split(source, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (ix *Indexer) writeUsageExamples(path string, source []byte, idByName map[string]string, calls []extract.CallRef) error {
	lines := strings.Split(string(source), "\n")
	for _, call := range calls {
		toID, _, ok, err := resolveName(ix.Store, path, call.CalleeName)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		count, err := ix.Store.CountUsageExamples(toID, store.EdgeCall)
		if err != nil {
			return err
		}
		if count >= ix.usageCap() {
			continue
		}
		var fromID string
		if id, ok := idByName[call.WithinName]; ok {
			fromID = id
		}
		if err := ix.Store.InsertUsageExample(&store.UsageExample{
			ToSymbolID: toID, FromSymbolID: fromID, Type: store.EdgeCall,
			File: path, Line: call.Line, Snippet: snippetAt(lines, call.Line),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) usageCap() int {
	if ix.MaxUsagePerSymbol > 0 {
		return ix.MaxUsagePerSymbol
	}
	return 20
}

func snippetAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}

var testFileSuffixes = []string{"_test.go", ".test.ts", ".test.js", ".spec.ts", ".spec.js", "_test.py", "test_"}

func (ix *Indexer) writeTestLink(path string) error {
	if !looksLikeTestFile(path) {
		return nil
	}
	source, err := inferSourceFile(path)
	if err != nil || source == "" {
		return nil
	}
	return ix.Store.LinkTest(path, source)
}

func looksLikeTestFile(path string) bool {
	base := strings.ToLower(path)
	for _, suf := range testFileSuffixes {
		if strings.HasSuffix(base, suf) || strings.Contains(base, "/"+suf) {
			return true
		}
	}
	return false
}

// inferSourceFile derives the most likely source file for a test file by
// naming convention (foo_test.go -> foo.go, foo.test.ts -> foo.ts).
func inferSourceFile(path string) (string, error) {
	for _, suf := range []string{"_test.go", ".test.ts", ".test.js", ".spec.ts", ".spec.js"} {
		if strings.HasSuffix(path, suf) {
			base := strings.TrimSuffix(path, suf)
			switch {
			case strings.HasSuffix(suf, ".go"):
				return base + ".go", nil
			case strings.HasSuffix(suf, ".ts"):
				return base + ".ts", nil
			default:
				return base + ".js", nil
			}
		}
	}
	return "", nil
}
