package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cahlchang/jp-to-en/internal/memory"
)

func TestLoadTSV(t *testing.T) {
	t.Parallel()

	content := "# reviewed pairs\n" +
		"こんにちは\thello\n" +
		"\n" +
		"行1\\n行2\tline 1\\nline 2\n" +
		"malformed line without tab\n" +
		"タブ\\t区切り\ttab\\tseparated\n"

	path := filepath.Join(t.TempDir(), "pairs.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pairs, err := LoadTSV(path)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.Equal(t, Pair{Source: "こんにちは", Translated: "hello"}, pairs[0])
	assert.Equal(t, Pair{Source: "行1\n行2", Translated: "line 1\nline 2"}, pairs[1])
	assert.Equal(t, Pair{Source: "タブ\t区切り", Translated: "tab\tseparated"}, pairs[2])
}

func TestLoadTSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestImportSeedsTranslationMemory(t *testing.T) {
	t.Parallel()

	mem := memory.NewStore(nil)
	im := NewImporter(mem, nil, nil)

	pairs := []Pair{
		{Source: "こんにちは", Translated: "hello"},
		{Source: "さようなら", Translated: "goodbye"},
	}
	require.NoError(t, im.Import(context.Background(), pairs, 16))

	got, ok := mem.Get(context.Background(), "こんにちは")
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	got, ok = mem.Get(context.Background(), "さようなら")
	require.True(t, ok)
	assert.Equal(t, "goodbye", got)
}
