package pipeline

import (
	"path"
	"strings"

	"github.com/fernbridge/codelens/internal/extract"
	"github.com/fernbridge/codelens/internal/store"
)

// resolveCalls turns a file's raw CallRef facts into edges, applying the
// resolution ladder from spec.md section 3: a same-file declaration is
// "local" (rank 3), a match reached through one of the file's own import
// statements is "import" (rank 2), a single globally-exported match is
// "heuristic" (rank 1) since the caller never consulted imports to
// disambiguate, and an unresolvable name is dropped rather than stored as a
// dangling edge. withinID maps an enclosing declaration's display name to
// its symbol id for files whose calls are nested inside more than one
// definition.
func resolveCalls(st *store.Store, filePath string, calls []extract.CallRef, withinID map[string]string) error {
	for _, call := range calls {
		fromID, ok := withinID[call.WithinName]
		if !ok {
			continue
		}
		toID, resolution, ok, err := resolveName(st, filePath, call.CalleeName)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := st.UpsertEdge(&store.Edge{
			FromID: fromID, ToID: toID, Type: store.EdgeCall,
			File: filePath, Line: call.Line, Confidence: confidenceFor(resolution),
			EvidenceCount: 1, Resolution: resolution,
		}); err != nil {
			return err
		}
		if err := st.AppendEdgeEvidence(&store.EdgeEvidence{
			FromID: fromID, ToID: toID, Type: store.EdgeCall, File: filePath, Line: call.Line, OccurrenceCount: 1,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resolveReferences turns a file's raw Reference facts (bare identifier
// usages that aren't calls) into edges, through the same resolution ladder
// resolveCalls uses. This is what feeds the type-seed graph expansion's
// incoming-reference edges for struct/interface/class/trait seeds that
// aren't named in a literal extends/implements clause.
func resolveReferences(st *store.Store, filePath string, refs []extract.Reference, withinID map[string]string) error {
	for _, ref := range refs {
		fromID, ok := withinID[ref.WithinName]
		if !ok {
			continue
		}
		toID, resolution, ok, err := resolveName(st, filePath, ref.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := st.UpsertEdge(&store.Edge{
			FromID: fromID, ToID: toID, Type: store.EdgeReference,
			File: filePath, Line: ref.Line, Confidence: confidenceFor(resolution),
			EvidenceCount: 1, Resolution: resolution,
		}); err != nil {
			return err
		}
		if err := st.AppendEdgeEvidence(&store.EdgeEvidence{
			FromID: fromID, ToID: toID, Type: store.EdgeReference, File: filePath, Line: ref.Line, OccurrenceCount: 1,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resolveTypeEdges turns lexical extends/implements/alias facts into edges,
// keyed from the declaring symbol's own id.
func resolveTypeEdges(st *store.Store, filePath string, edges []extract.TypeEdge, byName map[string]string) error {
	for _, te := range edges {
		fromID, ok := byName[te.FromName]
		if !ok {
			continue
		}
		toID, resolution, ok, err := resolveName(st, filePath, te.ToName)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := st.UpsertEdge(&store.Edge{
			FromID: fromID, ToID: toID, Type: te.Type,
			File: filePath, Line: te.Line, Confidence: confidenceFor(resolution),
			EvidenceCount: 1, Resolution: resolution,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resolveName applies the local, import, then global-heuristic resolution
// ladder for a bare identifier referenced from filePath.
func resolveName(st *store.Store, filePath, name string) (symbolID, resolution string, ok bool, err error) {
	if local, err := st.LocalSymbolByName(filePath, name); err != nil {
		return "", "", false, err
	} else if local != nil {
		return local.ID, store.ResolutionLocal, true, nil
	}

	if id, ok, err := resolveViaImport(st, filePath, name); err != nil {
		return "", "", false, err
	} else if ok {
		return id, store.ResolutionImport, true, nil
	}

	matches, err := st.GlobalExportedSymbolsByName(name)
	if err != nil {
		return "", "", false, err
	}
	if len(matches) == 1 {
		return matches[0].ID, store.ResolutionHeuristic, true, nil
	}
	return "", "", false, nil
}

// resolveViaImport looks for name among the exported symbols of the files
// filePath's own import statements resolve to. An import path resolves to
// a candidate file set rather than a single file (package-style imports
// are ambiguous about which file within the package holds the symbol), so
// a match only counts if exactly one distinct symbol turns up across every
// candidate — an ambiguous result falls through to the heuristic tier
// rather than guessing.
func resolveViaImport(st *store.Store, filePath, name string) (string, bool, error) {
	imports, err := st.ImportsForFile(filePath)
	if err != nil {
		return "", false, err
	}
	seen := map[string]bool{}
	for _, imp := range imports {
		candidates, err := importCandidateFiles(st, filePath, imp.ImportPath)
		if err != nil {
			return "", false, err
		}
		for _, candidate := range candidates {
			syms, err := st.SymbolsByName(name, candidate)
			if err != nil {
				return "", false, err
			}
			for _, sym := range syms {
				if sym.Exported {
					seen[sym.ID] = true
				}
			}
		}
	}
	if len(seen) != 1 {
		return "", false, nil
	}
	for id := range seen {
		return id, true, nil
	}
	return "", false, nil
}

// importCandidateFiles turns one written import path into the indexed
// files it could resolve to: a relative import ("./x", "../x") resolves to
// an exact path relative to fromFile's directory, while a package-style
// import (pkg/sub, com.foo.Bar, @scope/pkg) resolves by path suffix, since
// the store has no declared module root to anchor an exact match against.
func importCandidateFiles(st *store.Store, fromFile, importPath string) ([]string, error) {
	if importPath == "" {
		return nil, nil
	}
	if strings.HasPrefix(importPath, ".") {
		stem := path.Clean(path.Join(path.Dir(fromFile), importPath))
		return st.FilesByStem(stem)
	}
	stem := strings.NewReplacer(".", "/", "::", "/").Replace(strings.TrimPrefix(importPath, "@"))
	return st.FilesByStem(stem)
}

func confidenceFor(resolution string) float64 {
	switch resolution {
	case store.ResolutionLocal:
		return 1.0
	case store.ResolutionImport:
		return 0.9
	case store.ResolutionHeuristic:
		return 0.75
	default:
		return 0.1
	}
}
