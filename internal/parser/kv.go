package parser

import (
	"regexp"
	"strings"
)

var keyValue = regexp.MustCompile(`(?i)([a-z_]+)\s*=\s*("[^"]+"|'[^']+'|\S+)`)

// Extract scans text for key=value pairs. Keys are lowercased, values are unquoted and
// trimmed. When a key repeats, the first occurrence wins.
func Extract(text string) map[string]string {
	out := make(map[string]string)
	for _, m := range keyValue.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(m[1])
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = strings.TrimSpace(strings.Trim(m[2], `"'`))
	}
	return out
}
