package parser

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFileText reads a source file as text. UTF-8 is attempted first; on
// invalid UTF-8 the content is decoded once more as Latin-1, which accepts
// any byte sequence.
func ReadFileText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s with fallback encoding: %w", path, err)
	}
	return string(decoded), nil
}
