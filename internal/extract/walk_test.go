package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Go_SymbolsAndExportedness(t *testing.T) {
	src := `package widget

// New builds a Widget.
func New() *Widget {
	return &Widget{}
}

func helper() int {
	return 1
}

type Widget struct {
	Name string
}
`
	res, err := File("go", []byte(src))
	require.NoError(t, err)

	var names []string
	exported := map[string]bool{}
	for _, sym := range res.Symbols {
		names = append(names, sym.Name)
		exported[sym.Name] = sym.Exported
	}
	assert.Contains(t, names, "New")
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "Widget")
	assert.True(t, exported["New"])
	assert.True(t, exported["Widget"])
	assert.False(t, exported["helper"])
}

func TestFile_Go_CallsAndReferencesDoNotOverlap(t *testing.T) {
	src := `package widget

func New() *Widget {
	w := helper()
	var x Widget
	return use(w, x)
}
`
	res, err := File("go", []byte(src))
	require.NoError(t, err)

	var callNames []string
	for _, c := range res.Calls {
		callNames = append(callNames, c.CalleeName)
	}
	assert.Contains(t, callNames, "helper")
	assert.Contains(t, callNames, "use")

	// The call callees must never also surface as bare references.
	for _, ref := range res.References {
		assert.NotEqual(t, "helper", ref.Name, "call callee must be excluded from references")
	}

	var refNames []string
	for _, r := range res.References {
		refNames = append(refNames, r.Name)
	}
	assert.Contains(t, refNames, "Widget", "a bare type usage should surface as a reference")
}

func TestFile_Go_EmbeddedInterfaceProducesTypeEdge(t *testing.T) {
	src := `package widget

type Reader interface {
	Read() string
}

type ReadWriter interface {
	Reader
	Write(string)
}
`
	res, err := File("go", []byte(src))
	require.NoError(t, err)

	var found bool
	for _, te := range res.TypeEdges {
		if te.FromName == "ReadWriter" && te.ToName == "Reader" && te.Type == "extends" {
			found = true
		}
	}
	assert.True(t, found, "expected ReadWriter -> Reader extends edge, got %+v", res.TypeEdges)
}

func TestFile_Go_ImportsAndTODOs(t *testing.T) {
	src := `package widget

import (
	"fmt"
	"os"
)

// TODO: handle the error here properly
func run() {
	fmt.Println(os.Args)
}
`
	res, err := File("go", []byte(src))
	require.NoError(t, err)

	var paths []string
	for _, imp := range res.Imports {
		paths = append(paths, imp.Path)
	}
	assert.Contains(t, paths, "fmt")
	assert.Contains(t, paths, "os")

	require.Len(t, res.TODOs, 1)
	assert.Contains(t, res.TODOs[0].Text, "TODO")
}

func TestFile_Rust_PubVisibility(t *testing.T) {
	src := `
pub fn new() -> Widget {
    Widget {}
}

fn helper() -> i32 {
    1
}

pub struct Widget {
    pub name: String,
}
`
	res, err := File("rust", []byte(src))
	require.NoError(t, err)

	exported := map[string]bool{}
	for _, sym := range res.Symbols {
		exported[sym.Name] = sym.Exported
	}
	assert.True(t, exported["new"], "pub fn should be exported")
	assert.False(t, exported["helper"], "non-pub fn should not be exported")
	assert.True(t, exported["Widget"], "pub struct should be exported")
}

func TestFile_Java_PublicModifier(t *testing.T) {
	src := `
public class Widget {
    public void run() {}
    private void helper() {}
}
`
	res, err := File("java", []byte(src))
	require.NoError(t, err)

	exported := map[string]bool{}
	for _, sym := range res.Symbols {
		exported[sym.Name] = sym.Exported
	}
	assert.True(t, exported["Widget"])
	assert.True(t, exported["run"])
	assert.False(t, exported["helper"])
}

func TestFile_JavaScript_ExportStatement(t *testing.T) {
	src := `
export function build() {
  return 1;
}

function helper() {
  return 2;
}
`
	res, err := File("javascript", []byte(src))
	require.NoError(t, err)

	exported := map[string]bool{}
	for _, sym := range res.Symbols {
		exported[sym.Name] = sym.Exported
	}
	assert.True(t, exported["build"], "exported function should be Exported")
	assert.False(t, exported["helper"], "unexported function should not be Exported")
}

func TestFile_C_AlwaysExported(t *testing.T) {
	src := `
static int helper(void) {
    return 1;
}

int run(void) {
    return helper();
}
`
	res, err := File("c", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, res.Symbols)
	for _, sym := range res.Symbols {
		assert.True(t, sym.Exported, "C symbols are always treated as exported")
	}
}

func TestFile_Python_DecoratorsCaptured(t *testing.T) {
	src := `
@app.route("/widgets")
def list_widgets():
    return []
`
	res, err := File("python", []byte(src))
	require.NoError(t, err)
	require.Len(t, res.Symbols, 1)
	assert.NotEmpty(t, res.Symbols[0].Decorators)
}

func TestFile_UnsupportedLanguage(t *testing.T) {
	_, err := File("cobol", []byte("IDENTIFICATION DIVISION."))
	assert.Error(t, err)
}
