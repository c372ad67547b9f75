// Package tags normalises note tags typed by the user or written inline as #tags.
package tags

import (
	"regexp"
	"strings"
)

var inlineRe = regexp.MustCompile(`(?:^|\s)#([\p{L}][\p{L}\p{N}_/-]*)`)

// Split parses a comma-separated tag list, trimming items and dropping empties
// and repeats.
func Split(raw string) []string {
	return Merge(strings.Split(raw, ","))
}

// Extract returns the inline #tags found in text, in order of appearance.
func Extract(text string) []string {
	matches := inlineRe.FindAllStringSubmatch(text, -1)
	found := make([]string, 0, len(matches))
	for _, m := range matches {
		found = append(found, m[1])
	}
	return Merge(found)
}

// Merge concatenates tag lists keeping the first occurrence of each tag.
// Tags are trimmed; empty ones are dropped. Comparison is case-insensitive.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			key := strings.ToLower(t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
