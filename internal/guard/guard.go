// Package guard protects non-translatable tokens inside comment text. Format
// verbs, placeholders, URLs and inline code are swapped for {{var_N}} tokens
// before the text is sent to the model and restored afterwards, so the model
// cannot reword or drop them.
package guard

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores an original token and its safe replacement.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type tokenMatch struct {
	start, end int
	value      string
}

// patterns to detect tokens in comment text that must survive translation.
var patterns = []*regexp.Regexp{
	regexp.MustCompile("`[^`]+`"),                              // inline code
	regexp.MustCompile(`https?://[^\s)>\]]+`),                  // URLs
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpqv]`), // %d, %s, %v, %2d, etc.
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// Protect replaces all protected tokens with {{var_N}} placeholders and
// returns a mapping to restore the originals after translation.
func Protect(text string) (string, []Mapping) {
	var all []tokenMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, tokenMatch{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}

	if len(all) == 0 {
		return text, nil
	}

	// Deterministic order: by start position, longest first on overlap.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	// Drop overlapping matches, keeping the first.
	var filtered []tokenMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.end
		}
	}

	mappings := make([]Mapping, len(filtered))
	result := text
	// Replace back-to-front so earlier offsets stay valid.
	for i := len(filtered) - 1; i >= 0; i-- {
		m := filtered[i]
		placeholder := fmt.Sprintf("{{var_%d}}", i+1)
		mappings[i] = Mapping{Original: m.value, Placeholder: placeholder, Index: i + 1}
		result = result[:m.start] + placeholder + result[m.end:]
	}

	return result, mappings
}

// Restore replaces {{var_N}} placeholders with the original tokens.
func Restore(translated string, mappings []Mapping) string {
	result := translated
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
