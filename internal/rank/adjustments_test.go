package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fernbridge/codelens/internal/rewrite"
	"github.com/fernbridge/codelens/internal/store"
)

func TestApplyStructuralAdjustments_CombinesAllFactors(t *testing.T) {
	h := hit("a", 0, store.KindFunction, "src/widget.go")
	h.Symbol.Exported = true

	applyStructuralAdjustments(h, 3.0, []string{"widget"})

	assert.Equal(t, 3.0+1+2, h.Score, "exported boost + canonical src dir + one path component match")
	assert.Contains(t, h.Reasons, "exported")
	assert.Contains(t, h.Reasons, "canonical_source_dir")
	assert.Contains(t, h.Reasons, "path_component_match")
}

func TestApplyStructuralAdjustments_PenalizesVendorOverCanonical(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "src/vendor/widget.go")
	applyStructuralAdjustments(h, 0, nil)
	assert.Equal(t, 10.0+1-15, h.Score)
	assert.Contains(t, h.Reasons, "vendor_or_generated")
}

func TestIsVendorOrGenerated(t *testing.T) {
	assert.True(t, isVendorOrGenerated("a/node_modules/b.js"))
	assert.True(t, isVendorOrGenerated("proto/thing.pb.go"))
	assert.False(t, isVendorOrGenerated("src/widget.go"))
}

func TestHasCanonicalSourceDir(t *testing.T) {
	assert.True(t, hasCanonicalSourceDir("app/lib/widget.go"))
	assert.False(t, hasCanonicalSourceDir("scripts/widget.go"))
}

func TestCountPathComponentMatches_MatchesDirsAndFileStem(t *testing.T) {
	n := countPathComponentMatches("internal/widget/handler.go", []string{"widget", "handler", "missing"})
	assert.Equal(t, 2, n)
}

func TestApplyIntentMultiplier_DefinitionBoostsExportedDefinitionalKind(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "a.go")
	h.Symbol.Exported = true
	applyIntentMultiplier(h, rewrite.IntentDefinition)
	assert.Equal(t, 15.0, h.Score)
}

func TestApplyIntentMultiplier_SchemaRanksSchemaAboveModelAboveDB(t *testing.T) {
	schema := hit("a", 1, store.KindFunction, "db/schema/widget.go")
	model := hit("b", 1, store.KindFunction, "internal/model/widget.go")
	table := hit("c", 1, store.KindFunction, "db/migrations/widget.go")

	applyIntentMultiplier(schema, rewrite.IntentSchema)
	applyIntentMultiplier(model, rewrite.IntentSchema)
	applyIntentMultiplier(table, rewrite.IntentSchema)

	assert.Greater(t, schema.Score, model.Score)
	assert.Greater(t, model.Score, table.Score)
}

func TestApplyIntentMultiplier_DefaultPenalizesTestFiles(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "a_test.go")
	applyIntentMultiplier(h, rewrite.IntentNone)
	assert.Equal(t, 5.0, h.Score)
}

func TestApplyIntentMultiplier_TestIntentSparesTestFiles(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "a_test.go")
	applyIntentMultiplier(h, rewrite.IntentTest)
	assert.Equal(t, 10.0, h.Score)
}

func TestApplyIntentMultiplier_DefinitionIntentStillPenalizesTestFiles(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "a_test.go")
	h.Symbol.Exported = true
	applyIntentMultiplier(h, rewrite.IntentDefinition)
	assert.Equal(t, 5.0, h.Score, "the test-file penalty applies before any intent-specific branch")
}

func TestApplyIntentMultiplier_SchemaIntentStillPenalizesTestFiles(t *testing.T) {
	h := hit("a", 10, store.KindFunction, "db/schema/widget_test.go")
	applyIntentMultiplier(h, rewrite.IntentSchema)
	assert.Equal(t, 5.0, h.Score, "schema's own sub-scoring never overrides the unconditional test-file penalty")
}

func TestApplyDefinitionBias_ExactNameBeatsPartialMatch(t *testing.T) {
	exact := hit("a", 0, store.KindFunction, "a.go")
	exact.Symbol.Name = "Widget"
	partial := hit("b", 0, store.KindFunction, "b.go")
	partial.Symbol.Name = "WidgetFactory"

	applyDefinitionBias(exact, "widget", rewrite.IntentNone)
	applyDefinitionBias(partial, "widget", rewrite.IntentNone)

	assert.Equal(t, 10.0, exact.Score)
	assert.Equal(t, 1.0, partial.Score)
}

func TestApplyDefinitionBias_SkippedUnderCallersIntent(t *testing.T) {
	h := hit("a", 0, store.KindFunction, "a.go")
	h.Symbol.Name = "Widget"
	applyDefinitionBias(h, "widget", rewrite.IntentCallers)
	assert.Equal(t, 0.0, h.Score)
}
