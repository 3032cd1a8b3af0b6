package doctemplates

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Fill substitutes {{key}} placeholders from facts (case-sensitive keys,
// surrounding whitespace inside the braces ignored). Missing keys render
// as a visible [KEY] marker instead of failing. All distinct placeholders
// are collected in a single scan before any replacement, so a fact value
// containing {{...}} syntax is never re-expanded.
func Fill(body string, facts map[string]string) string {
	matches := placeholderRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return body
	}

	seen := make(map[string]bool, len(matches))
	pairs := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		placeholder := m[0]
		if seen[placeholder] {
			continue
		}
		seen[placeholder] = true

		key := strings.TrimSpace(m[1])
		value, ok := facts[key]
		if !ok {
			value = "[" + strings.ToUpper(key) + "]"
		}
		pairs = append(pairs, placeholder, value)
	}

	return strings.NewReplacer(pairs...).Replace(body)
}
