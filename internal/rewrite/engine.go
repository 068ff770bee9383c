// Package rewrite substitutes translated comment text back into the
// original file content without disturbing anything outside the edited
// spans.
package rewrite

import (
	"sort"
	"strings"

	"github.com/cahlchang/jp-to-en/internal/parser"
	"github.com/cahlchang/jp-to-en/internal/translation"
)

// Edit pairs an extracted comment with the translation to substitute.
type Edit struct {
	Comment parser.Comment
	Unit    translation.Unit
}

// Apply produces the updated content. Edits are applied in descending
// (line, column) order: a replacement can change a line's length, and
// working top-down from the end keeps every not-yet-applied position valid.
// An empty edit list returns the content unchanged, untranslated sentinel
// units are no-ops, and edits whose recorded position no longer exists are
// skipped rather than failing.
func Apply(original string, edits []Edit) string {
	if len(edits) == 0 {
		return original
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Comment.Line != sorted[j].Comment.Line {
			return sorted[i].Comment.Line > sorted[j].Comment.Line
		}
		return sorted[i].Comment.Column > sorted[j].Comment.Column
	})

	lines := strings.Split(original, "\n")

	for _, e := range sorted {
		if e.Unit.Untranslated() {
			continue
		}

		idx := e.Comment.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}

		if e.Comment.Marker != "" {
			lines[idx] = applyLine(lines[idx], e)
		} else {
			lines = applyBlock(lines, idx, e)
		}
	}

	return strings.Join(lines, "\n")
}

// applyLine rewrites a line comment: everything up to and including the
// marker is kept verbatim, the trailing content becomes a single space plus
// the translated text.
func applyLine(line string, e Edit) string {
	marker := e.Comment.Marker

	idx := -1
	if e.Comment.Column >= 0 && e.Comment.Column+len(marker) <= len(line) &&
		strings.HasPrefix(line[e.Comment.Column:], marker) {
		idx = e.Comment.Column
	} else {
		idx = strings.Index(line, marker)
	}
	if idx < 0 {
		return line
	}

	return line[:idx+len(marker)] + " " + e.Unit.Translated
}

// applyBlock replaces the recorded comment content of a block/doc construct
// with the translated text, leaving the delimiters untouched. Multi-line
// content is spliced through the line slice.
func applyBlock(lines []string, idx int, e Edit) []string {
	content := e.Comment.Text
	if content == "" {
		return lines
	}

	end := idx + strings.Count(content, "\n") + 1
	if end > len(lines) {
		end = len(lines)
	}

	segment := strings.Join(lines[idx:end], "\n")
	if !strings.Contains(segment, content) {
		// Position data no longer matches the content.
		return lines
	}

	replaced := strings.Split(strings.Replace(segment, content, e.Unit.Translated, 1), "\n")
	return append(lines[:idx], append(replaced, lines[end:]...)...)
}
