package assemble

import (
	"sort"

	"github.com/fernbridge/codelens/internal/config"
	"github.com/fernbridge/codelens/internal/store"
)

// Role is the provenance of an assembled item, per spec.md section 4.6
// step 6.
type Role string

const (
	RoleRoot     Role = "root"
	RoleExpanded Role = "expanded"
	RoleExtra    Role = "extra"
)

// typeDependencyEdges are the edge types auto-include pulls for a root
// symbol, per spec.md section 4.6 step 4 ("type/extends/implements
// targets").
var typeDependencyEdges = []string{store.EdgeType, store.EdgeExtends, store.EdgeImplements}

// Item is one assembled context entry, the exact shape spec.md section 4.6
// step 6 names.
type Item struct {
	ID        string
	FilePath  string
	StartLine int
	EndLine   int
	Kind      string
	Name      string
	Role      Role
	Reasons   []string
	Truncated bool
	Tokens    int
	Text      string
}

// Assembler builds token-budgeted context bundles from ranked roots.
type Assembler struct {
	Store  *store.Store
	Config *config.Config
}

// New builds an Assembler.
func New(cfg *config.Config, st *store.Store) *Assembler {
	return &Assembler{Store: st, Config: cfg}
}

// Assemble runs the full pipeline from spec.md section 4.6: root inclusion,
// neighborhood expansion, auto-included type dependencies, simplification,
// all bounded by budgetTokens (falls back to Config.MaxContextTokens when
// budgetTokens <= 0).
func (a *Assembler) Assemble(roots []*store.Symbol, budgetTokens int) ([]*Item, error) {
	if budgetTokens <= 0 {
		budgetTokens = a.Config.MaxContextTokens
	}
	encoding := a.Config.TokenEncoding

	var items []*Item
	seen := make(map[string]bool, len(roots))
	rootIDs := make([]string, 0, len(roots))

	for _, root := range roots {
		item := a.buildItem(root, RoleRoot, []string{"root"}, encoding)
		seen[root.ID] = true
		rootIDs = append(rootIDs, root.ID)
		if item.Tokens > budgetTokens {
			continue
		}
		items = append(items, item)
		budgetTokens -= item.Tokens
	}

	if budgetTokens > 0 {
		expanded, spent, err := a.expandNeighborhood(rootIDs, seen, budgetTokens, encoding)
		if err != nil {
			return nil, err
		}
		items = append(items, expanded...)
		budgetTokens -= spent
	}

	if budgetTokens > 0 {
		extra, spent, err := a.autoIncludeDependencies(roots, seen, budgetTokens, encoding)
		if err != nil {
			return nil, err
		}
		items = append(items, extra...)
		budgetTokens -= spent
	}

	return items, nil
}

func (a *Assembler) buildItem(sym *store.Symbol, role Role, reasons []string, encoding string) *Item {
	text, truncated := simplify(sym.Source, sym.Kind, role)
	return &Item{
		ID: sym.ID, FilePath: sym.FilePath, StartLine: sym.StartLine, EndLine: sym.EndLine,
		Kind: sym.Kind, Name: sym.Name, Role: role, Reasons: reasons,
		Truncated: truncated, Tokens: CountTokens(encoding, text), Text: text,
	}
}

// expandNeighborhood runs the breadth-limited walk, sorts candidates by
// score, and greedily takes the top N that fit the remaining budget, per
// spec.md section 4.6 step 3.
func (a *Assembler) expandNeighborhood(rootIDs []string, seen map[string]bool, budget int, encoding string) ([]*Item, int, error) {
	scored, err := walkNeighborhood(a.Store, rootIDs, seen)
	if err != nil {
		return nil, 0, err
	}
	if len(scored) == 0 {
		return nil, 0, nil
	}

	ordered := make([]*candidate, 0, len(scored))
	for _, c := range scored {
		ordered = append(ordered, c)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].score > ordered[j].score })

	ids := make([]string, len(ordered))
	for i, c := range ordered {
		ids[i] = c.symbolID
	}
	symbols, err := a.Store.SymbolsByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]*store.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	var items []*Item
	var spent int
	for _, c := range ordered {
		sym, ok := byID[c.symbolID]
		if !ok || seen[sym.ID] {
			continue
		}
		item := a.buildItem(sym, RoleExpanded, []string{"neighborhood:" + c.viaType}, encoding)
		if item.Tokens > budget-spent {
			continue
		}
		items = append(items, item)
		spent += item.Tokens
		seen[sym.ID] = true
	}
	return items, spent, nil
}

// autoIncludeDependencies pulls each root's direct type/extends/implements
// targets, per spec.md section 4.6 step 4.
func (a *Assembler) autoIncludeDependencies(roots []*store.Symbol, seen map[string]bool, budget int, encoding string) ([]*Item, int, error) {
	var items []*Item
	var spent int

	for _, root := range roots {
		edges, err := a.Store.OutgoingEdges(root.ID, typeDependencyEdges...)
		if err != nil {
			return nil, spent, err
		}
		for _, e := range edges {
			if seen[e.ToID] {
				continue
			}
			sym, err := a.Store.SymbolByID(e.ToID)
			if err != nil {
				if err == store.ErrNotFound {
					continue
				}
				return nil, spent, err
			}
			item := a.buildItem(sym, RoleExtra, []string{"type_dependency:" + e.Type}, encoding)
			if item.Tokens > budget-spent {
				continue
			}
			items = append(items, item)
			spent += item.Tokens
			seen[sym.ID] = true
		}
	}
	return items, spent, nil
}
