package parser

// Comment represents a comment extracted from source code.
type Comment struct {
	// Text is the comment content with markers and delimiters stripped.
	// For line comments only the marker and the whitespace immediately
	// following it are removed; trailing whitespace is preserved so that a
	// no-op rewrite reproduces the line byte-for-byte.
	Text string
	// Line is the 1-based line number where the comment starts.
	Line int
	// Column is the 0-based byte offset of the marker within its line.
	Column int
	// IsBlock reports whether the comment content spans multiple lines.
	IsBlock bool
	// Marker is the line-comment marker that introduced the comment, empty
	// for block/doc constructs.
	Marker string
	// Path is the source file path, empty when parsed from a string.
	Path string
}

// Parser is the interface for all language comment extractors.
type Parser interface {
	// Extensions lists the file extensions this parser handles.
	Extensions() []string
	// Extract scans source text and returns all comments sorted ascending
	// by (line, column). It never fails: malformed constructs degrade to
	// best-effort records.
	Extract(content, path string) []Comment
	// ExtractFile reads a file (with encoding fallback) and extracts its
	// comments.
	ExtractFile(path string) ([]Comment, error)
}

// BlockDelim is a pair of block comment delimiters. Open and Close may be
// identical, as with Python triple-quoted docstrings.
type BlockDelim struct {
	Open  string
	Close string
}

// Grammar describes the comment syntax of a source language. Supplying a new
// Grammar is all that is needed to support a new language.
type Grammar struct {
	// LineMarkers start a comment that runs to the end of the line.
	LineMarkers []string
	// BlockDelims enclose block or doc comments.
	BlockDelims []BlockDelim
}
