package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolID_IsStableForSameInputs(t *testing.T) {
	a := SymbolID("a.go", "Widget", 42, true)
	b := SymbolID("a.go", "Widget", 42, true)
	assert.Equal(t, a, b)
}

func TestSymbolID_ExportedIgnoresDeclOffset(t *testing.T) {
	a := SymbolID("a.go", "Widget", 10, true)
	b := SymbolID("a.go", "Widget", 999, true)
	assert.Equal(t, a, b, "exported symbols ignore their declaration offset so renames-in-place keep identity")
}

func TestSymbolID_UnexportedDistinguishesByOffset(t *testing.T) {
	a := SymbolID("a.go", "widget", 10, false)
	b := SymbolID("a.go", "widget", 20, false)
	assert.NotEqual(t, a, b)
}

func TestSymbolID_DifferentFilesDiffer(t *testing.T) {
	a := SymbolID("a.go", "Widget", 0, true)
	b := SymbolID("b.go", "Widget", 0, true)
	assert.NotEqual(t, a, b)
}

func TestClusterKey_StableAndSensitiveToContent(t *testing.T) {
	a := ClusterKey("function", "func widget ( ) { }")
	b := ClusterKey("function", "func widget ( ) { }")
	c := ClusterKey("function", "func other ( ) { }")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
