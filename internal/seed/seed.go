// Package seed imports reviewed translation pairs into the translation
// memory and the vector store, so a fresh installation starts with the
// judgement of past human review instead of an empty memory.
package seed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cahlchang/jp-to-en/internal/memory"
	"github.com/cahlchang/jp-to-en/internal/rag"
	"github.com/cahlchang/jp-to-en/internal/textutil"
)

// Pair is one reviewed source→translation pair.
type Pair struct {
	Source     string
	Translated string
}

// LoadTSV reads tab-separated source/translation pairs. Blank lines and
// lines starting with "#" are skipped; escaped \n and \t sequences in
// fields are unescaped so multi-line comments round-trip.
func LoadTSV(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var pairs []Pair
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			log.Warn().Int("line", lineNum).Msg("Skipping malformed seed line")
			continue
		}

		pairs = append(pairs, Pair{
			Source:     unescape(fields[0]),
			Translated: unescape(fields[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan seed file: %w", err)
	}

	return pairs, nil
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return s
}

// Importer feeds pairs into the configured stores.
type Importer struct {
	memory *memory.Store
	store  *rag.VectorStore
	embed  *rag.EmbeddingClient
}

// NewImporter creates an importer. store and embed may be nil when no
// vector store is configured; memory is required.
func NewImporter(mem *memory.Store, store *rag.VectorStore, embed *rag.EmbeddingClient) *Importer {
	return &Importer{memory: mem, store: store, embed: embed}
}

// Import stores every pair in the translation memory and, when an embedding
// client is configured, embeds and stores the sources for similarity
// retrieval.
func (im *Importer) Import(ctx context.Context, pairs []Pair, batchSize int) error {
	for _, p := range pairs {
		if err := im.memory.Set(ctx, p.Source, p.Translated); err != nil {
			return fmt.Errorf("seed translation memory: %w", err)
		}
	}
	log.Info().Int("pairs", len(pairs)).Msg("Seeded translation memory")

	if im.store == nil || im.embed == nil {
		return nil
	}

	texts := make([]string, len(pairs))
	for i, p := range pairs {
		texts[i] = p.Source
	}

	embeddings, err := im.embed.EmbedBatch(ctx, texts, batchSize)
	if err != nil {
		return fmt.Errorf("embed seed pairs: %w", err)
	}

	var records []rag.Record
	for i, p := range pairs {
		if i >= len(embeddings) || embeddings[i] == nil {
			continue
		}
		records = append(records, rag.Record{
			Hash:       textutil.Hash(p.Source),
			Source:     p.Source,
			Translated: p.Translated,
			Vector:     embeddings[i],
		})
	}

	if err := im.store.Store(ctx, records); err != nil {
		return fmt.Errorf("store seed embeddings: %w", err)
	}
	return nil
}
