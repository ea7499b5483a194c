package rewrite

// synonyms is a curated bidirectional table: each entry's partners are
// appended to a query term when synonym expansion is enabled, per spec.md
// section 4.4 step 2.
var synonyms = map[string][]string{
	"auth":          {"authentication", "authorization"},
	"authentication": {"auth"},
	"authorization": {"auth"},
	"db":            {"database"},
	"database":      {"db"},
	"config":        {"configuration", "settings"},
	"configuration": {"config", "settings"},
	"settings":      {"config", "configuration"},
	"err":           {"error"},
	"error":         {"err"},
	"func":          {"function"},
	"function":      {"func"},
	"msg":           {"message"},
	"message":       {"msg"},
	"req":           {"request"},
	"request":       {"req"},
	"res":           {"response", "result"},
	"response":      {"res"},
	"ctx":           {"context"},
	"context":       {"ctx"},
	"impl":          {"implementation"},
	"implementation": {"impl"},
	"repo":          {"repository"},
	"repository":    {"repo"},
	"svc":           {"service"},
	"service":       {"svc"},
	"mw":            {"middleware"},
	"middleware":    {"mw"},
	"init":          {"initialize", "initialization"},
	"initialize":    {"init"},
	"cfg":           {"config", "configuration"},
}

// acronyms maps recognized acronyms to their expansion, per spec.md section
// 4.4 step 3.
var acronyms = map[string]string{
	"api":   "application programming interface",
	"http":  "hypertext transfer protocol",
	"url":   "uniform resource locator",
	"sql":   "structured query language",
	"orm":   "object relational mapping",
	"jwt":   "json web token",
	"crud":  "create read update delete",
	"ast":   "abstract syntax tree",
	"cli":   "command line interface",
	"rpc":   "remote procedure call",
	"rest":  "representational state transfer",
	"io":    "input output",
	"acl":   "access control list",
	"ttl":   "time to live",
	"dto":   "data transfer object",
}

// expandSynonyms appends each recognized term's missing partners to terms,
// deduplicated, preserving original order with new terms at the end.
func expandSynonyms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range terms {
		for _, partner := range synonyms[t] {
			if !seen[partner] {
				seen[partner] = true
				out = append(out, partner)
			}
		}
	}
	return out
}

// expandAcronyms appends each recognized acronym's expansion words,
// deduplicated against what's already present.
func expandAcronyms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := append([]string{}, terms...)
	for _, t := range terms {
		seen[t] = true
	}
	for _, t := range terms {
		expansion, ok := acronyms[t]
		if !ok {
			continue
		}
		for _, w := range splitIdentifier(expansion) {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}
