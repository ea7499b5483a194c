package rank

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/fernbridge/codelens/internal/rewrite"
	"github.com/fernbridge/codelens/internal/store"
)

var barrelFiles = map[string]bool{
	"index.ts":  true,
	"index.tsx": true,
}

var canonicalSourceDirs = map[string]bool{
	"src":      true,
	"lib":      true,
	"app":      true,
	"packages": true,
}

var vendorOrGeneratedMarkers = []string{
	"/vendor/", "/node_modules/", "/dist/", "/build/", "/generated/",
	".min.js", ".min.css", ".generated.", "_pb.go", ".pb.go",
}

var schemaPaths = []string{"schema"}
var modelPaths = []string{"model", "entity", "entities"}
var dbPaths = []string{"db", "database", "migrations", "sql"}

// applyStructuralAdjustments applies the additive path- and export-based
// adjustments from spec.md section 4.5, before any multiplicative intent
// scoring runs.
func applyStructuralAdjustments(h *Hit, exportedBoost float64, queryTerms []string) {
	if h.Symbol.Exported {
		h.Score += exportedBoost
		h.addReason("exported")
	}

	base := path.Base(h.Symbol.FilePath)
	if barrelFiles[base] {
		h.Score -= 5
		h.addReason("barrel_file")
	}
	if isVendorOrGenerated(h.Symbol.FilePath) {
		h.Score -= 15
		h.addReason("vendor_or_generated")
	}
	if hasCanonicalSourceDir(h.Symbol.FilePath) {
		h.Score += 1
		h.addReason("canonical_source_dir")
	}

	matches := countPathComponentMatches(h.Symbol.FilePath, queryTerms)
	if matches > 0 {
		h.Score += 2 * float64(matches)
		h.addReason("path_component_match")
	}
}

func isVendorOrGenerated(filePath string) bool {
	lower := "/" + strings.ToLower(filepath.ToSlash(filePath))
	for _, marker := range vendorOrGeneratedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasCanonicalSourceDir(filePath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(filePath), "/") {
		if canonicalSourceDirs[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

func countPathComponentMatches(filePath string, queryTerms []string) int {
	components := make(map[string]bool)
	for _, seg := range strings.Split(filepath.ToSlash(filePath), "/") {
		seg = strings.ToLower(seg)
		components[seg] = true
		components[strings.TrimSuffix(seg, path.Ext(seg))] = true
	}
	count := 0
	for _, term := range queryTerms {
		if components[strings.ToLower(term)] {
			count++
		}
	}
	return count
}

// applyIntentMultiplier applies the multiplicative intent scoring from
// spec.md section 4.5. The test-file penalty is checked before any
// intent-specific case and, unless intent is Test itself, overrides it
// unconditionally. Callers(name) is handled entirely by graph expansion and
// gets no multiplier here.
func applyIntentMultiplier(h *Hit, intent rewrite.Intent) {
	if isTestFile(h.Symbol.FilePath) && intent != rewrite.IntentTest {
		h.Score *= 0.5
		h.addReason("intent_multiplier")
		return
	}

	mult := 1.0
	switch intent {
	case rewrite.IntentDefinition:
		if store.DefinitionalKinds[h.Symbol.Kind] && h.Symbol.Exported {
			mult = 1.5
		}
	case rewrite.IntentSchema:
		lower := strings.ToLower(filepath.ToSlash(h.Symbol.FilePath))
		switch {
		case containsAny(lower, schemaPaths):
			mult = 75
		case containsAny(lower, modelPaths):
			mult = 50
		case containsAny(lower, dbPaths):
			mult = 25
		default:
			mult = 0.5
		}
	}
	if mult != 1.0 {
		h.Score *= mult
		h.addReason("intent_multiplier")
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func isTestFile(filePath string) bool {
	base := strings.ToLower(path.Base(filePath))
	return strings.Contains(base, "_test.") || strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") || strings.HasPrefix(base, "test_")
}

// applyDefinitionBias applies the additive name-match bias from spec.md
// section 4.5, skipped entirely when intent is Callers.
func applyDefinitionBias(h *Hit, queryRaw string, intent rewrite.Intent) {
	if intent == rewrite.IntentCallers {
		return
	}
	if !store.DefinitionalKinds[h.Symbol.Kind] {
		return
	}
	compact := strings.ReplaceAll(strings.ToLower(queryRaw), " ", "")
	name := strings.ToLower(h.Symbol.Name)
	switch {
	case compact == name:
		h.Score += 10
		h.addReason("definition_exact_name")
	case strings.Contains(name, compact) && compact != "":
		h.Score += 1
		h.addReason("definition_partial_name")
	}
}
