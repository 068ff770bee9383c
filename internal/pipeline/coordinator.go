// Package pipeline sequences extraction, detection, translation and rewrite
// for each file and aggregates the batch summary.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/cahlchang/jp-to-en/internal/detector"
	"github.com/cahlchang/jp-to-en/internal/memory"
	"github.com/cahlchang/jp-to-en/internal/parser"
	"github.com/cahlchang/jp-to-en/internal/rewrite"
	"github.com/cahlchang/jp-to-en/internal/translation"
	"github.com/cahlchang/jp-to-en/internal/worker"
)

// Translator is the slice of the orchestrator the coordinator needs.
type Translator interface {
	Translate(ctx context.Context, text, contextBefore, contextAfter string) translation.Unit
}

// FileResult holds the outcome of processing one file. It lives only until
// the summary absorbs it.
type FileResult struct {
	Path            string
	CommentsFound   int
	FlaggedComments int
	UnitsTranslated int
	Changed         bool
	Skipped         bool
	OriginalContent string
	UpdatedContent  string
	Err             error
}

// Summary is the running total across one invocation. Only the coordinator
// mutates it, from the pool's single sink.
type Summary struct {
	Processed       int
	ChangedFiles    int
	SkippedFiles    int
	TotalComments   int
	FlaggedComments int
	TranslatedUnits int
	ErroredFiles    int
}

func (s *Summary) add(r FileResult) {
	if r.Skipped {
		s.SkippedFiles++
		return
	}
	s.Processed++
	s.TotalComments += r.CommentsFound
	s.FlaggedComments += r.FlaggedComments
	s.TranslatedUnits += r.UnitsTranslated
	if r.Changed {
		s.ChangedFiles++
	}
	if r.Err != nil {
		s.ErroredFiles++
	}
}

// Options are the write-side knobs of the coordinator.
type Options struct {
	// OutputDir mirrors updated files under this root instead of writing
	// in place. Empty means in-place.
	OutputDir string
	// DryRun detects and translates but never writes.
	DryRun bool
}

// Coordinator wires the pipeline components together.
type Coordinator struct {
	registry   *parser.Registry
	detector   *detector.Detector
	translator Translator
	memory     *memory.Store
	opts       Options
}

// NewCoordinator creates a coordinator. memory may be nil to disable the
// translation memory.
func NewCoordinator(registry *parser.Registry, det *detector.Detector, tr Translator, mem *memory.Store, opts Options) *Coordinator {
	return &Coordinator{
		registry:   registry,
		detector:   det,
		translator: tr,
		memory:     mem,
		opts:       opts,
	}
}

// ProcessFile runs the whole pipeline for one file. Failures are recorded
// in the result, never raised: a broken file must not take the batch down.
func (c *Coordinator) ProcessFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	p, ok := c.registry.ForFile(path)
	if !ok {
		log.Debug().Str("path", path).Msg("No parser available, skipping")
		result.Skipped = true
		return result
	}

	content, err := parser.ReadFileText(path)
	if err != nil {
		result.Err = err
		return result
	}
	result.OriginalContent = content
	result.UpdatedContent = content

	comments := p.Extract(content, path)
	result.CommentsFound = len(comments)

	var edits []rewrite.Edit
	for _, cm := range comments {
		spans := c.detector.Detect(cm.Text)
		if len(spans) == 0 {
			continue
		}
		result.FlaggedComments++

		units := make([]translation.Unit, len(spans))
		for i, sp := range spans {
			units[i] = c.translateSpan(ctx, sp)
			if !units[i].Untranslated() {
				result.UnitsTranslated++
			}
		}

		newText := substituteSpans(cm.Text, spans, units)
		if newText == cm.Text {
			continue
		}
		edits = append(edits, rewrite.Edit{
			Comment: cm,
			Unit:    translation.Unit{Original: cm.Text, Translated: newText},
		})
	}

	updated := rewrite.Apply(content, edits)
	result.UpdatedContent = updated
	result.Changed = updated != content

	if result.Changed && !c.opts.DryRun {
		if err := c.write(path, updated); err != nil {
			result.Err = err
		}
	}

	return result
}

// substituteSpans builds a comment's updated text by replacing each
// translated span at its recorded offsets. Spans arrive in ascending order;
// replacement runs back-to-front so earlier offsets stay valid.
func substituteSpans(text string, spans []detector.Span, units []translation.Unit) string {
	for i := len(spans) - 1; i >= 0; i-- {
		if units[i].Untranslated() {
			continue
		}
		sp := spans[i]
		text = text[:sp.StartOffset] + units[i].Translated + text[sp.EndOffset:]
	}
	return text
}

// translateSpan consults the translation memory before going to the
// backend and feeds successful translations back into it.
func (c *Coordinator) translateSpan(ctx context.Context, sp detector.Span) translation.Unit {
	if c.memory != nil {
		if cached, ok := c.memory.Get(ctx, sp.Text); ok {
			return translation.Unit{
				Original:      sp.Text,
				Translated:    cached,
				ContextBefore: sp.ContextBefore,
				ContextAfter:  sp.ContextAfter,
				ModelUsed:     "translation-memory",
			}
		}
	}

	unit := c.translator.Translate(ctx, sp.Text, sp.ContextBefore, sp.ContextAfter)

	if c.memory != nil && !unit.Untranslated() {
		if err := c.memory.Set(ctx, sp.Text, unit.Translated); err != nil {
			log.Warn().Err(err).Msg("Failed to store translation in memory")
		}
	}
	return unit
}

// write stores updated content in place or mirrored under the output root.
func (c *Coordinator) write(path, content string) error {
	out := path

	if c.opts.OutputDir != "" {
		rel := path
		if abs, err := filepath.Abs(path); err == nil {
			if cwd, err := os.Getwd(); err == nil {
				if r, err := filepath.Rel(cwd, abs); err == nil && !filepath.IsLocal(r) {
					rel = filepath.Base(path)
				} else if err == nil {
					rel = r
				}
			}
		}
		out = filepath.Join(c.opts.OutputDir, rel)

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// ProcessAll processes files with bounded parallelism. onResult is invoked
// once per file from the single aggregation goroutine, after the summary
// has absorbed the result.
func (c *Coordinator) ProcessAll(ctx context.Context, paths []string, workers int, onResult func(FileResult)) Summary {
	pool := worker.NewPool(workers, func(ctx context.Context, path string) FileResult {
		return c.ProcessFile(ctx, path)
	})

	var summary Summary
	pool.Run(ctx, paths, func(r FileResult) {
		summary.add(r)
		if r.Err != nil {
			log.Error().Err(r.Err).Str("path", r.Path).Msg("File processing failed")
		}
		if onResult != nil {
			onResult(r)
		}
	})
	return summary
}
