package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServerClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gc := NewGeminiClient("test-key", "gemini-2.5-flash")
	gc.baseURL = srv.URL
	return gc
}

func candidateResponse(text string) geminiResponse {
	return geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
}

func TestGeminiTranslateSuccess(t *testing.T) {
	t.Parallel()

	var captured geminiRequest
	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(candidateResponse("  hello world  "))
	})

	out, err := gc.Translate(context.Background(), "こんにちは世界", "before", "after")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.Contents, 1)
	userPrompt := captured.Contents[0].Parts[0].Text
	assert.Contains(t, userPrompt, "こんにちは世界")
	assert.Contains(t, userPrompt, "before")
	assert.Contains(t, userPrompt, "after")
}

func TestGeminiTranslateRateLimitedIsTransient(t *testing.T) {
	t.Parallel()

	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := gc.Translate(context.Background(), "テスト", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransient))
}

func TestGeminiTranslateServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	_, err := gc.Translate(context.Background(), "テスト", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransient))
}

func TestGeminiTranslateBadRequestIsTerminal(t *testing.T) {
	t.Parallel()

	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := gc.Translate(context.Background(), "テスト", "", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTransient))
}

func TestGeminiTranslateEmptyCandidates(t *testing.T) {
	t.Parallel()

	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiResponse{})
	})

	_, err := gc.Translate(context.Background(), "テスト", "", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTransient))
}

type fixedProvider struct{ ref string }

func (p fixedProvider) ReferenceContext(context.Context, string) string { return p.ref }

func TestGeminiTranslateIncludesReferenceContext(t *testing.T) {
	t.Parallel()

	var captured geminiRequest
	gc := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(candidateResponse("ok"))
	})
	gc.SetContextProvider(fixedProvider{ref: "=== Terminology ===\n• 関数 → function\n"})

	_, err := gc.Translate(context.Background(), "関数を定義する", "", "")
	require.NoError(t, err)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "関数 → function")
}
