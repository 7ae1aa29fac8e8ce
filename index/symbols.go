package index

import "regexp"

// declPattern matches identifier-like tokens next to common declaration
// keywords across the supported languages. This is a heuristic scan, not a
// parse: it can over- or under-match, which is acceptable for prompt context.
var declPattern = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:func|function|class|def|const|let|var|interface|type|struct|enum|trait|fn|module)\s+(?:\([^)]*\)\s*)?([A-Za-z_$][A-Za-z0-9_$]*)`)

// ExtractSymbols scans source content for declared names, keeping document
// order and stopping at maxSymbols. No de-duplication is performed.
func ExtractSymbols(content string, maxSymbols int) []string {
	if maxSymbols <= 0 {
		return nil
	}

	matches := declPattern.FindAllStringSubmatch(content, -1)
	symbols := make([]string, 0, len(matches))
	for _, m := range matches {
		symbols = append(symbols, m[1])
		if len(symbols) >= maxSymbols {
			break
		}
	}
	return symbols
}
