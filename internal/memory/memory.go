// Package memory is the translation memory: identical comments translate
// once per run (and once ever, when Postgres persistence is configured).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/cahlchang/jp-to-en/internal/textutil"
)

// Store caches translations in memory, optionally backed by Postgres.
// A nil pool gives a process-local memory, which is the default mode.
type Store struct {
	pool    *pgxpool.Pool
	mu      sync.RWMutex
	entries map[string]string // hash → translated text
}

// NewStore creates a translation memory. pool may be nil.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		entries: make(map[string]string),
	}
}

// EnsureSchema creates the backing table. No-op without a pool; safe to run
// concurrently and repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS translation_memory (
			hash       TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			translated TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure translation_memory schema: %w", err)
	}
	return nil
}

// Get retrieves a cached translation for the source text.
func (s *Store) Get(ctx context.Context, sourceText string) (string, bool) {
	hash := textutil.Hash(sourceText)

	s.mu.RLock()
	if v, ok := s.entries[hash]; ok {
		s.mu.RUnlock()
		return v, true
	}
	s.mu.RUnlock()

	if s.pool == nil {
		return "", false
	}

	var translated string
	err := s.pool.QueryRow(ctx,
		`SELECT translated FROM translation_memory WHERE hash = $1`, hash,
	).Scan(&translated)
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	s.entries[hash] = translated
	s.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and, when configured, in Postgres.
func (s *Store) Set(ctx context.Context, sourceText, translated string) error {
	hash := textutil.Hash(sourceText)

	s.mu.Lock()
	s.entries[hash] = translated
	s.mu.Unlock()

	if s.pool == nil {
		return nil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO translation_memory (hash, source, translated)
		VALUES ($1, $2, $3)
		ON CONFLICT (hash) DO UPDATE SET translated = EXCLUDED.translated`,
		hash, sourceText, translated)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// Preload loads all persisted translations into memory.
func (s *Store) Preload(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}

	rows, err := s.pool.Query(ctx, `SELECT hash, translated FROM translation_memory`)
	if err != nil {
		return fmt.Errorf("preload translation memory: %w", err)
	}
	defer rows.Close()

	count := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var hash, translated string
		if err := rows.Scan(&hash, &translated); err != nil {
			return fmt.Errorf("scan translation memory row: %w", err)
		}
		s.entries[hash] = translated
		count++
	}

	log.Info().Int("count", count).Msg("Preloaded translation memory")
	return rows.Err()
}
