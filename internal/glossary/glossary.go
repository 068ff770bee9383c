// Package glossary keeps a neo4j graph of Japanese→English terminology so
// that recurring technical terms translate the same way in every comment.
package glossary

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Term is a Japanese→English terminology mapping with a category tag.
type Term struct {
	Japanese string
	English  string
	Category string // type, control-flow, error, io, concurrency, general
}

// Glossary reads and writes the neo4j terminology graph.
type Glossary struct {
	driver neo4j.DriverWithContext
}

// New creates a glossary over an existing driver.
func New(driver neo4j.DriverWithContext) *Glossary {
	return &Glossary{driver: driver}
}

// EnsureSchema creates constraints on the terminology graph.
func (g *Glossary) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT IF NOT EXISTS FOR (t:Term) REQUIRE t.japanese IS UNIQUE", nil)
	if err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}

	log.Info().Msg("Glossary schema ensured")
	return nil
}

// SeedBuiltin populates the graph with a starter set of programming terms.
// Existing terms keep whatever translation they already carry.
func (g *Glossary) SeedBuiltin(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, t := range builtinTerms() {
		_, err := session.Run(ctx, `
			MERGE (t:Term {japanese: $japanese})
			ON CREATE SET t.english = $english, t.category = $category
		`, map[string]any{
			"japanese": t.Japanese,
			"english":  t.English,
			"category": t.Category,
		})
		if err != nil {
			return fmt.Errorf("upsert term %s: %w", t.Japanese, err)
		}
	}

	log.Info().Int("terms", len(builtinTerms())).Msg("Seeded builtin terminology")
	return nil
}

// Add upserts a single term, overriding any builtin translation.
func (g *Glossary) Add(ctx context.Context, t Term) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (t:Term {japanese: $japanese})
		SET t.english = $english, t.category = $category
	`, map[string]any{
		"japanese": t.Japanese,
		"english":  t.English,
		"category": t.Category,
	})
	if err != nil {
		return fmt.Errorf("add term %s: %w", t.Japanese, err)
	}
	return nil
}

// TermsIn finds all terms whose Japanese form appears in text, longest
// first so compound terms outrank their parts.
func (g *Glossary) TermsIn(ctx context.Context, text string) ([]Term, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Term)
		WHERE $text CONTAINS t.japanese
		RETURN t.japanese AS japanese, t.english AS english, t.category AS category
		ORDER BY size(t.japanese) DESC
	`, map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}

	var terms []Term
	for result.Next(ctx) {
		record := result.Record()
		japanese, _ := record.Get("japanese")
		english, _ := record.Get("english")
		category, _ := record.Get("category")
		terms = append(terms, Term{
			Japanese: fmt.Sprintf("%v", japanese),
			English:  fmt.Sprintf("%v", english),
			Category: fmt.Sprintf("%v", category),
		})
	}
	return terms, result.Err()
}

// All retrieves the full terminology as a lookup map.
func (g *Glossary) All(ctx context.Context) (map[string]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (t:Term)
		RETURN t.japanese AS japanese, t.english AS english
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("get all terminology: %w", err)
	}

	terms := make(map[string]string)
	for result.Next(ctx) {
		record := result.Record()
		japanese, _ := record.Get("japanese")
		english, _ := record.Get("english")
		terms[fmt.Sprintf("%v", japanese)] = fmt.Sprintf("%v", english)
	}
	return terms, result.Err()
}

// builtinTerms returns terminology that shows up constantly in Japanese
// code comments and deserves a fixed rendering.
func builtinTerms() []Term {
	return []Term{
		{Japanese: "関数", English: "function", Category: "type"},
		{Japanese: "変数", English: "variable", Category: "type"},
		{Japanese: "定数", English: "constant", Category: "type"},
		{Japanese: "引数", English: "argument", Category: "type"},
		{Japanese: "戻り値", English: "return value", Category: "type"},
		{Japanese: "配列", English: "array", Category: "type"},
		{Japanese: "文字列", English: "string", Category: "type"},
		{Japanese: "構造体", English: "struct", Category: "type"},
		{Japanese: "辞書", English: "dictionary", Category: "type"},
		{Japanese: "初期化", English: "initialization", Category: "control-flow"},
		{Japanese: "処理", English: "processing", Category: "control-flow"},
		{Japanese: "条件分岐", English: "conditional branch", Category: "control-flow"},
		{Japanese: "繰り返し", English: "loop", Category: "control-flow"},
		{Japanese: "再帰", English: "recursion", Category: "control-flow"},
		{Japanese: "例外", English: "exception", Category: "error"},
		{Japanese: "エラー処理", English: "error handling", Category: "error"},
		{Japanese: "エラー", English: "error", Category: "error"},
		{Japanese: "検証", English: "validation", Category: "error"},
		{Japanese: "読み込み", English: "read", Category: "io"},
		{Japanese: "書き込み", English: "write", Category: "io"},
		{Japanese: "入力", English: "input", Category: "io"},
		{Japanese: "出力", English: "output", Category: "io"},
		{Japanese: "設定", English: "configuration", Category: "io"},
		{Japanese: "接続", English: "connection", Category: "io"},
		{Japanese: "非同期", English: "asynchronous", Category: "concurrency"},
		{Japanese: "排他制御", English: "mutual exclusion", Category: "concurrency"},
		{Japanese: "並列", English: "parallel", Category: "concurrency"},
		{Japanese: "実装", English: "implementation", Category: "general"},
		{Japanese: "環境", English: "environment", Category: "general"},
		{Japanese: "開発", English: "development", Category: "general"},
		{Japanese: "注意", English: "note", Category: "general"},
		{Japanese: "一時的", English: "temporary", Category: "general"},
		{Japanese: "削除", English: "delete", Category: "general"},
		{Japanese: "更新", English: "update", Category: "general"},
		{Japanese: "取得", English: "fetch", Category: "general"},
	}
}
