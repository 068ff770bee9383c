package parser

import (
	"sort"
	"strings"
)

// LanguageParser extracts comments from source text according to a Grammar.
// All concrete parsers are instances of this type; the scanning logic is
// shared.
type LanguageParser struct {
	name    string
	exts    []string
	grammar Grammar
}

// NewLanguageParser builds a parser for the given grammar.
func NewLanguageParser(name string, exts []string, grammar Grammar) *LanguageParser {
	return &LanguageParser{name: name, exts: exts, grammar: grammar}
}

func (p *LanguageParser) Name() string { return p.name }

func (p *LanguageParser) Extensions() []string { return p.exts }

// ExtractFile reads path with encoding fallback and extracts its comments.
func (p *LanguageParser) ExtractFile(path string) ([]Comment, error) {
	content, err := ReadFileText(path)
	if err != nil {
		return nil, err
	}
	return p.Extract(content, path), nil
}

// byteRange is a half-open [start, end) span of the source text.
type byteRange struct {
	start, end int
}

func (r byteRange) overlaps(start, end int) bool {
	return start < r.end && r.start < end
}

// Extract scans content and returns all comments sorted ascending by
// (line, column). Block matches win over overlapping line matches.
func (p *LanguageParser) Extract(content, path string) []Comment {
	blocks, ranges := p.scanBlocks(content, path)
	lines := p.scanLines(content, path, ranges)

	comments := append(blocks, lines...)
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].Line != comments[j].Line {
			return comments[i].Line < comments[j].Line
		}
		return comments[i].Column < comments[j].Column
	})
	return comments
}

// scanBlocks finds block/doc comments. It matches the first admissible
// opening delimiter and the nearest non-overlapping closing delimiter; an
// unterminated block extends to the end of the text.
func (p *LanguageParser) scanBlocks(content, path string) ([]Comment, []byteRange) {
	if len(p.grammar.BlockDelims) == 0 {
		return nil, nil
	}

	var comments []Comment
	var ranges []byteRange

	pos := 0
	for pos < len(content) {
		openIdx := -1
		var delim BlockDelim
		for _, d := range p.grammar.BlockDelims {
			idx := strings.Index(content[pos:], d.Open)
			if idx < 0 {
				continue
			}
			if openIdx < 0 || pos+idx < openIdx {
				openIdx = pos + idx
				delim = d
			}
		}
		if openIdx < 0 {
			break
		}

		// Skip openings that sit inside a string literal on their own line.
		lineStart := strings.LastIndexByte(content[:openIdx], '\n') + 1
		if isInsideString(content[lineStart:openIdx], len(content[lineStart:openIdx])) {
			pos = openIdx + len(delim.Open)
			continue
		}

		contentStart := openIdx + len(delim.Open)
		closeIdx := strings.Index(content[contentStart:], delim.Close)

		var text string
		var end int
		if closeIdx < 0 {
			// Unterminated: best-effort record to end of text.
			text = content[contentStart:]
			end = len(content)
		} else {
			text = content[contentStart : contentStart+closeIdx]
			end = contentStart + closeIdx + len(delim.Close)
		}

		before := content[:openIdx]
		line := strings.Count(before, "\n") + 1
		column := openIdx - lineStart

		comments = append(comments, Comment{
			Text:    text,
			Line:    line,
			Column:  column,
			IsBlock: strings.Contains(text, "\n"),
			Path:    path,
		})
		ranges = append(ranges, byteRange{start: openIdx, end: end})
		pos = end
	}

	return comments, ranges
}

// scanLines finds line comments. For each physical line the first marker
// occurrence outside string literals starts the comment; markers inside an
// already-matched block are ignored, and a line record overlapping a block
// range is dropped (the block match wins).
func (p *LanguageParser) scanLines(content, path string, blocked []byteRange) []Comment {
	if len(p.grammar.LineMarkers) == 0 {
		return nil
	}

	var comments []Comment
	lineStart := 0
	lineNum := 0

	for lineStart <= len(content) {
		lineNum++
		lineEnd := strings.IndexByte(content[lineStart:], '\n')
		var line string
		if lineEnd < 0 {
			line = content[lineStart:]
			lineEnd = len(content)
		} else {
			line = content[lineStart : lineStart+lineEnd]
			lineEnd = lineStart + lineEnd
		}

		if idx, marker := p.findMarker(line, lineStart, blocked); idx >= 0 {
			overlapped := false
			for _, r := range blocked {
				if r.overlaps(lineStart+idx, lineEnd) {
					overlapped = true
					break
				}
			}
			if !overlapped {
				text := strings.TrimLeft(line[idx+len(marker):], " \t")
				comments = append(comments, Comment{
					Text:   text,
					Line:   lineNum,
					Column: idx,
					Marker: marker,
					Path:   path,
				})
			}
		}

		if lineEnd >= len(content) {
			break
		}
		lineStart = lineEnd + 1
	}

	return comments
}

// findMarker returns the earliest line-marker occurrence on line that is
// neither inside a string literal nor inside a block comment range.
func (p *LanguageParser) findMarker(line string, lineOffset int, blocked []byteRange) (int, string) {
	best := -1
	var bestMarker string

	for _, marker := range p.grammar.LineMarkers {
		from := 0
		for from < len(line) {
			idx := strings.Index(line[from:], marker)
			if idx < 0 {
				break
			}
			idx += from

			inBlock := false
			for _, r := range blocked {
				if lineOffset+idx >= r.start && lineOffset+idx < r.end {
					inBlock = true
					break
				}
			}
			if !inBlock && !isInsideString(line, idx) {
				if best < 0 || idx < best {
					best = idx
					bestMarker = marker
				}
				break
			}
			from = idx + len(marker)
		}
	}

	return best, bestMarker
}

// isInsideString checks if position idx on a line is inside a string
// literal. Double, single and backtick quotes are tracked; backslash escapes
// apply outside backticks. State does not carry across lines, so markers
// inside multi-line string constructs the grammar does not model remain a
// known false positive.
func isInsideString(line string, idx int) bool {
	inDouble := false
	inSingle := false
	inBacktick := false
	for i := 0; i < idx && i < len(line); i++ {
		ch := line[i]
		if ch == '\\' && !inBacktick {
			i++ // skip escaped char
			continue
		}
		switch ch {
		case '"':
			if !inSingle && !inBacktick {
				inDouble = !inDouble
			}
		case '\'':
			if !inDouble && !inBacktick {
				inSingle = !inSingle
			}
		case '`':
			if !inDouble && !inSingle {
				inBacktick = !inBacktick
			}
		}
	}
	return inDouble || inSingle || inBacktick
}
