package rag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// VectorStore keeps embeddings of previously translated comments in
// pgvector for similarity lookup.
type VectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewVectorStore creates a vector store over an existing pool.
func NewVectorStore(pool *pgxpool.Pool, dimensions int) *VectorStore {
	return &VectorStore{pool: pool, dimensions: dimensions}
}

// EnsureSchema creates the embeddings table and extension.
func (vs *VectorStore) EnsureSchema(ctx context.Context) error {
	if _, err := vs.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("ensure vector extension: %w", err)
	}
	_, err := vs.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS comment_embeddings (
			hash       TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			translated TEXT NOT NULL,
			embedding  vector(%d)
		)`, vs.dimensions))
	if err != nil {
		return fmt.Errorf("ensure comment_embeddings schema: %w", err)
	}
	return nil
}

// Record is a translated comment with its embedding.
type Record struct {
	Hash       string
	Source     string
	Translated string
	Vector     []float32
}

// Match is a similarity search hit: a past translation close to the query.
type Match struct {
	Source     string
	Translated string
	Score      float64
}

// Store upserts embedding records.
func (vs *VectorStore) Store(ctx context.Context, records []Record) error {
	for _, r := range records {
		_, err := vs.pool.Exec(ctx, `
			INSERT INTO comment_embeddings (hash, source, translated, embedding)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (hash) DO UPDATE
			SET translated = EXCLUDED.translated, embedding = EXCLUDED.embedding`,
			r.Hash, r.Source, r.Translated, pgvector.NewVector(r.Vector))
		if err != nil {
			return fmt.Errorf("insert embedding %s: %w", r.Hash, err)
		}
	}

	log.Info().Int("count", len(records)).Msg("Stored embeddings")
	return nil
}

// Search finds the top-K most similar past translations to the query vector.
func (vs *VectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	rows, err := vs.pool.Query(ctx, `
		SELECT source, translated, 1 - (embedding <=> $1) AS similarity
		FROM comment_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(queryVector), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Source, &m.Translated, &m.Score); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
