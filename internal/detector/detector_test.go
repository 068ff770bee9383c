package detector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEstimator returns a fixed probability, or an error when err is set.
type stubEstimator struct {
	p   float64
	err error
}

func (s *stubEstimator) Probability(string) (float64, error) { return s.p, s.err }

func TestContainsJapanese(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsJapanese("これはテストです"))
	assert.True(t, ContainsJapanese("mixed 日本語 text"))
	assert.True(t, ContainsJapanese("カタカナ"))
	assert.True(t, ContainsJapanese("漢字"))
	assert.False(t, ContainsJapanese("english only"))
	assert.False(t, ContainsJapanese(""))
	assert.False(t, ContainsJapanese("한국어 text"))
}

func TestIsJapaneseShortUnitDensity(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.0}, 0.5, 50)

	// Short units never reach the estimator, density decides alone.
	assert.True(t, d.IsJapanese("日本語のみ"))
	assert.True(t, d.IsJapanese("短い 日本語です"))
	assert.False(t, d.IsJapanese("a 語 word here"))
	assert.False(t, d.IsJapanese("english"))

	// 10 characters: 5 Japanese clears the 0.4 threshold, 3 does not.
	assert.True(t, d.IsJapanese("あいうえおabcde"))
	assert.False(t, d.IsJapanese("あいうabcdefg"))
}

func TestIsJapaneseStatisticalTier(t *testing.T) {
	t.Parallel()

	// 20 runes, 5 Japanese: long enough for the statistical tier.
	text := "日本語です and some words"

	high := New(&stubEstimator{p: 0.9}, 0.5, 50)
	assert.True(t, high.IsJapanese(text))

	low := New(&stubEstimator{p: 0.3}, 0.5, 50)
	assert.False(t, low.IsJapanese(text))
}

func TestIsJapaneseEstimatorFailureFallsBackToDensity(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{err: errors.New("no signal")}, 0.5, 50)

	// Density 5/20 = 0.25 clears the looser fallback threshold.
	assert.True(t, d.IsJapanese("日本語です and some words"))
	// Density 2/30 does not.
	assert.False(t, d.IsJapanese("日本 and more english words here"))
}

func TestDetectOffsetsAndContext(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.9}, 0.5, 10)
	text := "Hello world. これはテストです。 Goodbye."

	spans := d.Detect(text)
	require.Len(t, spans, 1)

	sp := spans[0]
	assert.Equal(t, " これはテストです", sp.Text)
	assert.Equal(t, text[sp.StartOffset:sp.EndOffset], sp.Text)
	assert.Equal(t, "llo world.", sp.ContextBefore)
	assert.Equal(t, "。 Goodbye.", sp.ContextAfter)
}

func TestDetectNarrowsSparseUnitToJapaneseRuns(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.9}, 0.5, 10)
	text := "Hello 日本語 test."

	// The unit as a whole is too sparse to classify Japanese, so only the
	// contiguous Japanese run is flagged.
	spans := d.Detect(text)
	require.Len(t, spans, 1)

	sp := spans[0]
	assert.Equal(t, "日本語", sp.Text)
	assert.Equal(t, text[sp.StartOffset:sp.EndOffset], sp.Text)
	assert.Equal(t, "Hello ", sp.ContextBefore)
	assert.Equal(t, " test.", sp.ContextAfter)
}

func TestDetectMultipleRunsInOneUnit(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.1}, 0.5, 50)
	spans := d.Detect("use 値 together with 型 in this long declaration")

	require.Len(t, spans, 2)
	assert.Equal(t, "値", spans[0].Text)
	assert.Equal(t, "型", spans[1].Text)
}

func TestDetectMultipleUnits(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.9}, 0.5, 20)
	spans := d.Detect("最初の文。English sentence here? 二番目の文。")

	require.Len(t, spans, 2)
	assert.Equal(t, "最初の文", spans[0].Text)
	assert.Equal(t, " 二番目の文", spans[1].Text)
	assert.Less(t, spans[0].StartOffset, spans[1].StartOffset)
}

func TestDetectNothingToFlag(t *testing.T) {
	t.Parallel()

	d := New(&stubEstimator{p: 0.9}, 0.5, 10)

	assert.Empty(t, d.Detect(""))
	assert.Empty(t, d.Detect("   \t  "))
	assert.Empty(t, d.Detect("pure english comment."))
	// Whitespace-only units between terminators are never flagged.
	assert.Empty(t, d.Detect(".  .  ."))
}

func TestSplitUnitsOffsets(t *testing.T) {
	t.Parallel()

	units := splitUnits("abc. def\nghi")
	require.Len(t, units, 3)

	assert.Equal(t, "abc", units[0].text)
	assert.Equal(t, 0, units[0].start)
	assert.Equal(t, " def", units[1].text)
	assert.Equal(t, "ghi", units[2].text)
	assert.Equal(t, 12, units[2].end)
}

func TestRuneWindows(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cde", lastRunes("abcde", 3))
	assert.Equal(t, "abcde", lastRunes("abcde", 10))
	assert.Equal(t, "", lastRunes("abcde", 0))
	assert.Equal(t, "語です", lastRunes("日本語です", 3))

	assert.Equal(t, "abc", firstRunes("abcde", 3))
	assert.Equal(t, "abcde", firstRunes("abcde", 10))
	assert.Equal(t, "", firstRunes("abcde", 0))
	assert.Equal(t, "日本語", firstRunes("日本語です", 3))
}
