package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cahlchang/jp-to-en/internal/parser"
	"github.com/cahlchang/jp-to-en/internal/translation"
)

func lineEdit(line, column int, marker, original, translated string) Edit {
	return Edit{
		Comment: parser.Comment{Line: line, Column: column, Marker: marker, Text: original},
		Unit:    translation.Unit{Original: original, Translated: translated},
	}
}

func TestApplyNoEdits(t *testing.T) {
	t.Parallel()

	content := "# コメント\nx = 1\n"
	assert.Equal(t, content, Apply(content, nil))
}

func TestApplyUntranslatedSentinelIsNoOp(t *testing.T) {
	t.Parallel()

	content := "# コメント\nx = 1\n"
	edits := []Edit{lineEdit(1, 0, "#", "コメント", "コメント")}
	assert.Equal(t, content, Apply(content, edits))
}

func TestApplyLineComment(t *testing.T) {
	t.Parallel()

	content := "x = 1  # 値を設定\n"
	edits := []Edit{lineEdit(1, 7, "#", "値を設定", "set the value")}
	assert.Equal(t, "x = 1  # set the value\n", Apply(content, edits))
}

func TestApplyMultipleLinesDescending(t *testing.T) {
	t.Parallel()

	content := "a\n# こんにちは\nb\nc\n# さようなら\nd\n"
	edits := []Edit{
		lineEdit(2, 0, "#", "こんにちは", "hello"),
		lineEdit(5, 0, "#", "さようなら", "goodbye"),
	}
	assert.Equal(t, "a\n# hello\nb\nc\n# goodbye\nd\n", Apply(content, edits))
}

func TestApplyOutOfRangeLineSkipped(t *testing.T) {
	t.Parallel()

	content := "# コメント\n"
	edits := []Edit{lineEdit(99, 0, "#", "コメント", "comment")}
	assert.Equal(t, content, Apply(content, edits))
}

func TestApplyStaleColumnFallsBackToSearch(t *testing.T) {
	t.Parallel()

	// Recorded column does not match; the marker search still finds it.
	content := "x = 1  # 値を設定\n"
	edits := []Edit{lineEdit(1, 3, "#", "値を設定", "set the value")}
	assert.Equal(t, "x = 1  # set the value\n", Apply(content, edits))
}

func TestApplyBlockComment(t *testing.T) {
	t.Parallel()

	content := "\"\"\"\nこれは\nテスト\n\"\"\"\nx = 1\n"
	edits := []Edit{{
		Comment: parser.Comment{Line: 1, Column: 0, IsBlock: true, Text: "\nこれは\nテスト\n"},
		Unit: translation.Unit{
			Original:   "\nこれは\nテスト\n",
			Translated: "\nThis is\na test\n",
		},
	}}
	assert.Equal(t, "\"\"\"\nThis is\na test\n\"\"\"\nx = 1\n", Apply(content, edits))
}

func TestApplyBlockContentMismatchSkipped(t *testing.T) {
	t.Parallel()

	content := "/* actual text */\n"
	edits := []Edit{{
		Comment: parser.Comment{Line: 1, Column: 0, Text: " different text "},
		Unit:    translation.Unit{Original: " different text ", Translated: " changed "},
	}}
	assert.Equal(t, content, Apply(content, edits))
}

func TestApplyPreservesSurroundingBytes(t *testing.T) {
	t.Parallel()

	content := "def f():\n\tx = 1   # インデントとスペース\n\treturn x\n"
	edits := []Edit{lineEdit(2, 9, "#", "インデントとスペース", "indent and spaces")}

	got := Apply(content, edits)
	assert.Equal(t, "def f():\n\tx = 1   # indent and spaces\n\treturn x\n", got)
}
