package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cahlchang/jp-to-en/internal/glossary"
	"github.com/cahlchang/jp-to-en/internal/textutil"
)

// TermSource yields glossary terms contained in a text. Implemented by
// glossary.Glossary; an interface so the retriever works without neo4j.
type TermSource interface {
	TermsIn(ctx context.Context, text string) ([]glossary.Term, error)
}

// Retriever assembles the reference block injected into translation
// prompts: similar past translations from the vector store plus matching
// glossary terminology. It implements translation.ContextProvider.
type Retriever struct {
	store *VectorStore
	embed *EmbeddingClient
	terms TermSource
	topK  int
}

// NewRetriever creates a retriever. store/embed and terms are each
// optional; whatever is configured contributes to the reference block.
func NewRetriever(store *VectorStore, embed *EmbeddingClient, terms TermSource, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, embed: embed, terms: terms, topK: topK}
}

// ReferenceContext returns a prompt-ready reference block for text, or the
// empty string when nothing relevant was found. Retrieval failures degrade
// to less context, never to an error: translation must go on without it.
func (r *Retriever) ReferenceContext(ctx context.Context, text string) string {
	var sb strings.Builder

	if r.store != nil && r.embed != nil {
		if matches := r.similar(ctx, text); len(matches) > 0 {
			sb.WriteString("=== Similar Past Translations ===\n")
			for _, m := range matches {
				sb.WriteString(fmt.Sprintf("• %s → %s\n", m.Source, m.Translated))
			}
			sb.WriteString("\n")
		}
	}

	if r.terms != nil {
		terms, err := r.terms.TermsIn(ctx, text)
		if err != nil {
			log.Warn().Err(err).Msg("Glossary query failed")
		} else if len(terms) > 0 {
			sb.WriteString("=== Terminology ===\n")
			for _, t := range terms {
				sb.WriteString(fmt.Sprintf("• %s → %s", t.Japanese, t.English))
				if t.Category != "" {
					sb.WriteString(fmt.Sprintf(" [%s]", t.Category))
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (r *Retriever) similar(ctx context.Context, text string) []Match {
	vec, err := r.embed.EmbedQuery(ctx, text)
	if err != nil {
		log.Warn().Err(err).
			Str("text", textutil.Truncate(text, 40)).
			Msg("Failed to embed query, skipping similarity search")
		return nil
	}

	matches, err := r.store.Search(ctx, vec, r.topK)
	if err != nil {
		log.Warn().Err(err).Msg("Vector search failed")
		return nil
	}
	return matches
}
