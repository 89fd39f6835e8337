package wordlist

import "strings"

// Normalize trims whitespace and lowercases a word for comparison.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Clean drops empty entries and case-insensitive duplicates, keeping first occurrences.
func Clean(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		key := Normalize(w)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}
