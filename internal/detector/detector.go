package detector

import (
	"strings"
	"unicode/utf8"
)

// Span is a contiguous Japanese-flagged segment of a comment's text with
// bounded surrounding context. Offsets are byte offsets into the comment
// text; context windows are measured in runes and never cross the comment's
// own boundaries.
type Span struct {
	Text          string
	StartOffset   int
	EndOffset     int
	ContextBefore string
	ContextAfter  string
}

// Estimator produces the estimated probability that a text is Japanese.
// It returns an error when no confident distribution can be computed.
type Estimator interface {
	Probability(text string) (float64, error)
}

const (
	// Units shorter than this many runes are classified by character
	// density alone; single Japanese words produce too little signal for
	// the statistical estimator.
	shortUnitRunes = 15
	// Density threshold for short units.
	shortUnitDensity = 0.4
	// Looser density threshold used when the estimator fails on a long
	// unit, accepting more false positives over no signal at all.
	fallbackDensity = 0.2
)

// Detector finds Japanese segments inside comment text. The zero tunables
// are supplied at construction; Detect is deterministic for a fixed
// configuration.
type Detector struct {
	estimator     Estimator
	minConfidence float64
	contextWindow int
}

// New creates a detector. minConfidence is the statistical-tier threshold
// and contextWindow the number of context runes captured on each side.
func New(estimator Estimator, minConfidence float64, contextWindow int) *Detector {
	return &Detector{
		estimator:     estimator,
		minConfidence: minConfidence,
		contextWindow: contextWindow,
	}
}

// Japanese character ranges: Hiragana, Katakana, Kanji.
func isJapaneseRune(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) ||
		(r >= 0x30A0 && r <= 0x30FF) ||
		(r >= 0x4E00 && r <= 0x9FAF)
}

// ContainsJapanese reports whether s contains any Japanese character.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if isJapaneseRune(r) {
			return true
		}
	}
	return false
}

// density is the fraction of Japanese runes over all runes.
func density(s string) float64 {
	total := 0
	japanese := 0
	for _, r := range s {
		total++
		if isJapaneseRune(r) {
			japanese++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(japanese) / float64(total)
}

// IsJapanese applies the two-tier classification to a single unit of text.
func (d *Detector) IsJapanese(text string) bool {
	if !ContainsJapanese(text) {
		return false
	}

	if utf8.RuneCountInString(text) < shortUnitRunes {
		return density(text) > shortUnitDensity
	}

	p, err := d.estimator.Probability(text)
	if err != nil {
		return density(text) > fallbackDensity
	}
	return p >= d.minConfidence
}

// unit is a sentence-delimited segment with its byte offsets.
type unit struct {
	text       string
	start, end int
}

// sentence terminators, including the ideographic forms.
func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '\n':
		return true
	}
	return false
}

// splitUnits segments text on runs of sentence terminators, retaining the
// byte offsets of each unit within the original text.
func splitUnits(text string) []unit {
	var units []unit
	start := -1
	for i, r := range text {
		if isTerminator(r) {
			if start >= 0 {
				units = append(units, unit{text: text[start:i], start: start, end: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		units = append(units, unit{text: text[start:], start: start, end: len(text)})
	}
	return units
}

// Detect finds Japanese spans in text with surrounding context. A unit that
// classifies as Japanese becomes one span; a unit that merely contains
// Japanese characters contributes its contiguous Japanese runs instead, so
// stray Japanese inside an otherwise English sentence is still caught.
// Empty and whitespace-only units are never flagged; adjacent flagged units
// are not merged, each sentence-delimited unit stands alone.
func (d *Detector) Detect(text string) []Span {
	if text == "" || !ContainsJapanese(text) {
		return nil
	}

	var spans []Span
	emit := func(s string, start, end int) {
		spans = append(spans, Span{
			Text:          s,
			StartOffset:   start,
			EndOffset:     end,
			ContextBefore: lastRunes(text[:start], d.contextWindow),
			ContextAfter:  firstRunes(text[end:], d.contextWindow),
		})
	}

	for _, u := range splitUnits(text) {
		if strings.TrimSpace(u.text) == "" || !ContainsJapanese(u.text) {
			continue
		}
		if d.IsJapanese(u.text) {
			emit(u.text, u.start, u.end)
			continue
		}
		for _, r := range japaneseRuns(u.text) {
			emit(u.text[r.start:r.end], u.start+r.start, u.start+r.end)
		}
	}
	return spans
}

// japaneseRuns returns the byte ranges of maximal consecutive Japanese
// character runs in s.
func japaneseRuns(s string) []byteRange {
	var runs []byteRange
	start := -1
	for i, r := range s {
		if isJapaneseRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, byteRange{start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, byteRange{start: start, end: len(s)})
	}
	return runs
}

// byteRange is a half-open [start, end) byte span.
type byteRange struct {
	start, end int
}

// lastRunes returns up to n trailing runes of s.
func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := len(s); i > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		count++
		if count == n {
			return s[i:]
		}
	}
	return s
}

// firstRunes returns up to n leading runes of s.
func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
