package rewrite

import "regexp"

// Intent is the query classification spec.md section 4.4 step 5 feeds into
// the hybrid retriever's intent multiplier.
type Intent string

const (
	IntentNone           Intent = ""
	IntentDefinition     Intent = "Definition"
	IntentCallers        Intent = "Callers"
	IntentSchema         Intent = "Schema"
	IntentTest           Intent = "Test"
	IntentImplementation Intent = "Implementation"
	IntentConfig         Intent = "Config"
	IntentError          Intent = "Error"
	IntentAPI            Intent = "API"
	IntentHook           Intent = "Hook"
	IntentMiddleware     Intent = "Middleware"
	IntentMigration      Intent = "Migration"
)

// intentRule pairs a compiled matcher with the intent it signals. Order
// matters: the first match wins. A data-driven table instead of cascading
// conditionals, per spec.md section 9's explicit recommendation, so adding
// an intent never means retouching the scorer.
type intentRule struct {
	pattern *regexp.Regexp
	intent  Intent
	// targetGroup is the regexp capture group index holding the callee
	// name for intents that carry a target (currently only Callers).
	targetGroup int
}

var intentRules = []intentRule{
	{regexp.MustCompile(`(?i)^who\s+calls\s+(\S+)`), IntentCallers, 1},
	{regexp.MustCompile(`(?i)^callers?\s+of\s+(\S+)`), IntentCallers, 1},
	{regexp.MustCompile(`(?i)\bwhat\s+calls\s+(\S+)`), IntentCallers, 1},
	{regexp.MustCompile(`(?i)\b(schema|migration)s?\b.*\b(table|column|model)s?\b`), IntentSchema, 0},
	{regexp.MustCompile(`(?i)\b(database|db)\s+(schema|table|model)`), IntentSchema, 0},
	{regexp.MustCompile(`(?i)\bmigrations?\b`), IntentMigration, 0},
	{regexp.MustCompile(`(?i)\btest(s|ing)?\s+for\b|\bunit\s+tests?\b|\btest\s+case`), IntentTest, 0},
	{regexp.MustCompile(`(?i)\bimplements?\b|\bimplementation\s+of\b`), IntentImplementation, 0},
	{regexp.MustCompile(`(?i)\bmiddleware\b`), IntentMiddleware, 0},
	{regexp.MustCompile(`(?i)\bhooks?\b`), IntentHook, 0},
	{regexp.MustCompile(`(?i)\b(config|configuration|settings)\b`), IntentConfig, 0},
	{regexp.MustCompile(`(?i)\berror\s+handling\b|\bexceptions?\b|\berror\s+types?\b`), IntentError, 0},
	{regexp.MustCompile(`(?i)\bapi\s+(endpoint|route|handler)s?\b|\brest\s+api\b`), IntentAPI, 0},
	{regexp.MustCompile(`(?i)\bdefin(e|ition)\s+of\b|\bwhere\s+is\b.*\bdefined\b|\bdeclaration\s+of\b`), IntentDefinition, 0},
}

// classifyIntent runs the ordered rule table against the raw (pre-split)
// query text, since the patterns need word-boundary phrasing ("who calls
// X") that's lost once the query has been tokenized.
func classifyIntent(raw string) (intent Intent, target string) {
	for _, rule := range intentRules {
		m := rule.pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		if rule.targetGroup > 0 && rule.targetGroup < len(m) {
			return rule.intent, m[rule.targetGroup]
		}
		return rule.intent, ""
	}
	return IntentNone, ""
}
