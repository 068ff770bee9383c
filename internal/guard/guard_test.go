package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectNoTokens(t *testing.T) {
	t.Parallel()

	text := "エラーをログに出力する"
	protected, mappings := Protect(text)
	assert.Equal(t, text, protected)
	assert.Empty(t, mappings)
}

func TestProtectRoundTrip(t *testing.T) {
	t.Parallel()

	text := "`fmt.Println` で %s と ${name} と {0} を https://example.com/doc に出力 (100%%)"
	protected, mappings := Protect(text)

	require.Len(t, mappings, 6)
	assert.NotContains(t, protected, "`")
	assert.NotContains(t, protected, "https://")
	assert.NotContains(t, protected, "%s")
	assert.Contains(t, protected, "{{var_1}}")
	assert.Contains(t, protected, "{{var_6}}")

	assert.Equal(t, text, Restore(protected, mappings))
}

func TestProtectPlaceholdersNumberedByPosition(t *testing.T) {
	t.Parallel()

	protected, mappings := Protect("%d 件を %s に保存")
	require.Len(t, mappings, 2)
	assert.Equal(t, "%d", mappings[0].Original)
	assert.Equal(t, "%s", mappings[1].Original)
	assert.Equal(t, "{{var_1}} 件を {{var_2}} に保存", protected)
}

func TestProtectOverlappingTokens(t *testing.T) {
	t.Parallel()

	// The %s sits inside the inline-code span; only the outer token counts.
	protected, mappings := Protect("`printf %s here`")
	require.Len(t, mappings, 1)
	assert.Equal(t, "`printf %s here`", mappings[0].Original)
	assert.Equal(t, "{{var_1}}", protected)
}

func TestRestoreIgnoresUnknownPlaceholders(t *testing.T) {
	t.Parallel()

	out := Restore("text {{var_9}} stays", nil)
	assert.Equal(t, "text {{var_9}} stays", out)
}
