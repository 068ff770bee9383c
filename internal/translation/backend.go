package translation

import (
	"context"
	"errors"
)

// Unit is the result of translating one detected span. Translated equal to
// Original is the sentinel for "untranslated": the backend ultimately failed
// and the text is left as it was.
type Unit struct {
	Original      string
	Translated    string
	ContextBefore string
	ContextAfter  string
	ModelUsed     string
	Confidence    float64
}

// Untranslated reports whether the unit carries the failure sentinel.
func (u Unit) Untranslated() bool { return u.Translated == u.Original }

// ErrTransient tags retryable backend failures (rate limiting, timeouts).
// Backends wrap it; the retry loop checks it with errors.Is. Any other
// failure is terminal for that call.
var ErrTransient = errors.New("transient translation failure")

// Backend is the external translation capability: one call, one translated
// text. Context fields may be empty.
type Backend interface {
	Translate(ctx context.Context, text, contextBefore, contextAfter string) (string, error)
	// Model returns the model identifier recorded for provenance.
	Model() string
}

// ContextProvider supplies reference material (similar past translations,
// glossary terms) that a backend may fold into its prompt.
type ContextProvider interface {
	ReferenceContext(ctx context.Context, text string) string
}
