package extract

// Symbol is one declaration found in a file, pre-identity-assignment (the
// indexing pipeline computes the stable id via internal/idgen).
type Symbol struct {
	Kind        string
	Name        string
	Exported    bool
	StartByte   int
	EndByte     int
	StartLine   int
	EndLine     int
	Source      string
	DocComment  string
	Decorators  []string
}

// Import is one import/use/require statement.
type Import struct {
	Path string // the imported module/package path as written
	Line int
}

// TypeEdge is a structural relation between two names discovered lexically
// (extends/implements/alias) before symbol-id resolution.
type TypeEdge struct {
	FromName string
	ToName   string
	Type     string // store.EdgeExtends, store.EdgeImplements, store.EdgeAlias
	Line     int
}

// CallRef is a lexical call-site reference, resolved to a symbol id later
// by the indexing pipeline's identifier-scan pass.
type CallRef struct {
	CalleeName string
	Line       int
	WithinName string // enclosing symbol's declared name, "" if file-scope
}

// Reference is a lexical bare-identifier usage that is not a call — a type
// named in a variable declaration, a struct literal, a function signature,
// and so on. Resolved to a symbol id later by the same identifier-scan pass
// that resolves CallRef.
type Reference struct {
	Name       string
	Line       int
	WithinName string // enclosing symbol's declared name, "" if file-scope
}

// TODO is a TODO/FIXME/XXX comment occurrence.
type TODO struct {
	Text string
	Line int
}

// Result is the complete set of facts extracted from one file.
type Result struct {
	Language          string
	Symbols           []Symbol
	Imports           []Import
	TypeEdges         []TypeEdge
	Calls             []CallRef
	References        []Reference
	TODOs             []TODO
	FrameworkPatterns []string
}
