package extract

import "github.com/fernbridge/codelens/internal/store"

// kindRule maps one tree-sitter node type to a symbol kind. Exported-ness is
// derived separately, per language — see isExported in walk.go.
type kindRule struct {
	kind string
}

// nodeKinds is the per-language table of tree-sitter node types this
// package recognizes as symbol declarations. Keeping this data-driven
// rather than a per-language cascade of type switches follows the same
// "ordered table over cascading conditionals" shape spec.md section 9
// prescribes for intent classification.
var nodeKinds = map[string]map[string]kindRule{
	"go": {
		"function_declaration": {store.KindFunction},
		"method_declaration":   {store.KindFunction},
		"type_spec":            {store.KindTypeAlias}, // refined to struct/interface in walk.go
		"const_spec":           {store.KindConst},
	},
	"python": {
		"function_definition": {store.KindFunction},
		"class_definition":    {store.KindClass},
	},
	"javascript": {
		"function_declaration": {store.KindFunction},
		"method_definition":    {store.KindFunction},
		"class_declaration":    {store.KindClass},
	},
	"typescript": {
		"function_declaration":  {store.KindFunction},
		"method_definition":     {store.KindFunction},
		"class_declaration":     {store.KindClass},
		"interface_declaration": {store.KindInterface},
		"type_alias_declaration": {store.KindTypeAlias},
		"enum_declaration":      {store.KindEnum},
	},
	"tsx": {
		"function_declaration":  {store.KindFunction},
		"method_definition":     {store.KindFunction},
		"class_declaration":     {store.KindClass},
		"interface_declaration": {store.KindInterface},
		"type_alias_declaration": {store.KindTypeAlias},
	},
	"rust": {
		"function_item": {store.KindFunction},
		"struct_item":   {store.KindStruct},
		"enum_item":     {store.KindEnum},
		"trait_item":    {store.KindTrait},
		"impl_item":     {store.KindImpl},
	},
	"java": {
		"method_declaration":    {store.KindFunction},
		"class_declaration":     {store.KindClass},
		"interface_declaration": {store.KindInterface},
		"enum_declaration":      {store.KindEnum},
	},
	"c": {
		"function_definition": {store.KindFunction},
		"struct_specifier":    {store.KindStruct},
		"enum_specifier":      {store.KindEnum},
	},
	"cpp": {
		"function_definition": {store.KindFunction},
		"struct_specifier":    {store.KindStruct},
		"class_specifier":     {store.KindClass},
		"enum_specifier":      {store.KindEnum},
	},
	"php": {
		"function_definition":    {store.KindFunction},
		"method_declaration":     {store.KindFunction},
		"class_declaration":      {store.KindClass},
		"interface_declaration":  {store.KindInterface},
	},
	"ruby": {
		"method": {store.KindFunction},
		"class":  {store.KindClass},
		"module": {store.KindModule},
	},
}

// importNodeKinds lists the node types treated as import statements per
// language.
var importNodeKinds = map[string]map[string]bool{
	"go":         {"import_spec": true},
	"python":     {"import_statement": true, "import_from_statement": true},
	"javascript": {"import_statement": true},
	"typescript": {"import_statement": true},
	"tsx":        {"import_statement": true},
	"rust":       {"use_declaration": true},
	"java":       {"import_declaration": true},
	"c":          {"preproc_include": true},
	"cpp":        {"preproc_include": true},
	"php":        {"namespace_use_declaration": true},
	// ruby has no dedicated import node: `require`/`require_relative` are
	// ordinary method calls, so ruby files surface no Imports and rely on
	// the pipeline's identifier-scan edge resolution instead.
}

// callNodeKinds lists the node types treated as call expressions per
// language, used to derive "call" edges.
var callNodeKinds = map[string]string{
	"go":         "call_expression",
	"python":     "call",
	"javascript": "call_expression",
	"typescript": "call_expression",
	"tsx":        "call_expression",
	"rust":       "call_expression",
	"java":       "method_invocation",
	"c":          "call_expression",
	"cpp":        "call_expression",
	"php":        "function_call_expression",
	"ruby":       "method_call",
}

// commentNodeKinds lists the node types treated as comments/docstrings per
// language.
var commentNodeKinds = map[string]bool{
	"comment": true,
}
