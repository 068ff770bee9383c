package detector

import (
	"errors"

	"github.com/pemistahl/lingua-go"
)

// LinguaEstimator estimates language probabilities with lingua-go. The
// underlying models are statistical but fully deterministic, so repeated
// calls on the same input always agree.
type LinguaEstimator struct {
	detector lingua.LanguageDetector
}

// NewLinguaEstimator builds an estimator restricted to the languages that
// plausibly occur in source comments handled by this tool. Restricting the
// set keeps model loading cheap and sharpens the Japanese confidence.
func NewLinguaEstimator() *LinguaEstimator {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Japanese, lingua.English, lingua.Chinese, lingua.Korean).
		Build()
	return &LinguaEstimator{detector: d}
}

// Probability returns the estimated probability that text is Japanese. It
// errors when lingua cannot compute a distribution for the input, which
// triggers the caller's density fallback.
func (e *LinguaEstimator) Probability(text string) (float64, error) {
	values := e.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return 0, errors.New("no confidence distribution for input")
	}
	for _, v := range values {
		if v.Language() == lingua.Japanese {
			return v.Value(), nil
		}
	}
	return 0, nil
}
