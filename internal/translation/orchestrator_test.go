package translation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend returns canned responses in order and counts calls.
type scriptedBackend struct {
	responses []func(text string) (string, error)
	calls     int
}

func (b *scriptedBackend) Translate(_ context.Context, text, _, _ string) (string, error) {
	i := b.calls
	b.calls++
	if i >= len(b.responses) {
		i = len(b.responses) - 1
	}
	return b.responses[i](text)
}

func (b *scriptedBackend) Model() string { return "scripted" }

func succeed(out string) func(string) (string, error) {
	return func(string) (string, error) { return out, nil }
}

func failTransient() func(string) (string, error) {
	return func(string) (string, error) {
		return "", fmt.Errorf("rate limited: %w", ErrTransient)
	}
}

func failTerminal() func(string) (string, error) {
	return func(string) (string, error) {
		return "", errors.New("invalid request")
	}
}

// recordingSleeper captures requested delays without actually sleeping.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestOrchestrator(b Backend, maxRetries int) (*Orchestrator, *recordingSleeper) {
	o := NewOrchestrator(b, maxRetries, time.Second, 0)
	rec := &recordingSleeper{}
	o.sleep = rec.sleep
	return o, rec
}

func TestTranslateWhitespaceShortCircuits(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){succeed("never")}}
	o, _ := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "   \t ", "", "")
	assert.True(t, unit.Untranslated())
	assert.Zero(t, b.calls)
}

func TestTranslateSuccess(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){succeed("  hello  ")}}
	o, rec := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "こんにちは", "before", "after")
	assert.Equal(t, "hello", unit.Translated)
	assert.Equal(t, "こんにちは", unit.Original)
	assert.Equal(t, "scripted", unit.ModelUsed)
	assert.Equal(t, "before", unit.ContextBefore)
	assert.False(t, unit.Untranslated())
	assert.Equal(t, 1, b.calls)
	assert.Empty(t, rec.delays)
}

func TestTranslateRetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){
		failTransient(),
		succeed("hello"),
	}}
	o, rec := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "こんにちは", "", "")
	assert.Equal(t, "hello", unit.Translated)
	assert.Equal(t, 2, b.calls)
	assert.Equal(t, []time.Duration{time.Second}, rec.delays)
}

func TestTranslateExhaustsRetries(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){failTransient()}}
	o, rec := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "こんにちは", "", "")
	assert.True(t, unit.Untranslated())
	assert.Empty(t, unit.ModelUsed)
	assert.Equal(t, 3, b.calls)
	// Backoff doubles after each failed attempt; no sleep after the last.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestTranslateTerminalErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){failTerminal()}}
	o, rec := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "こんにちは", "", "")
	assert.True(t, unit.Untranslated())
	assert.Equal(t, 1, b.calls)
	assert.Empty(t, rec.delays)
}

func TestTranslateRestoresProtectedTokens(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(s string) (string, error){
		func(s string) (string, error) {
			// The backend must see placeholders, not the raw tokens.
			require.Contains(t, s, "{{var_1}}")
			require.NotContains(t, s, "%s")
			return "output {{var_1}} to the log", nil
		},
	}}
	o, _ := newTestOrchestrator(b, 3)

	unit := o.Translate(context.Background(), "%s をログに出力する", "", "")
	assert.Equal(t, "output %s to the log", unit.Translated)
}

func TestTranslateBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){
		func(s string) (string, error) { return "en:" + s, nil },
	}}
	o, _ := newTestOrchestrator(b, 3)

	units := o.TranslateBatch(context.Background(), []Request{
		{Text: "一"},
		{Text: "二"},
		{Text: "三"},
	})
	require.Len(t, units, 3)
	assert.Equal(t, "en:一", units[0].Translated)
	assert.Equal(t, "en:二", units[1].Translated)
	assert.Equal(t, "en:三", units[2].Translated)
	assert.Equal(t, 3, b.calls)
}

func TestTranslateBatchCancelledFillsSentinels(t *testing.T) {
	t.Parallel()

	b := &scriptedBackend{responses: []func(string) (string, error){succeed("one")}}
	o := NewOrchestrator(b, 1, time.Second, time.Millisecond)
	o.sleep = func(context.Context, time.Duration) error {
		return context.Canceled
	}

	units := o.TranslateBatch(context.Background(), []Request{
		{Text: "一"}, {Text: "二"}, {Text: "三"},
	})
	require.Len(t, units, 3)
	assert.Equal(t, "one", units[0].Translated)
	assert.True(t, units[1].Untranslated())
	assert.True(t, units[2].Untranslated())
	assert.Equal(t, 1, b.calls)
}
