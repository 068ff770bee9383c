package translation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cahlchang/jp-to-en/internal/guard"
	"github.com/cahlchang/jp-to-en/internal/textutil"
)

// Request pairs a text to translate with its surrounding context.
type Request struct {
	Text          string
	ContextBefore string
	ContextAfter  string
}

// Orchestrator drives the backend with retry, backoff and batch pacing.
// A failed translation never surfaces as an error: the unit comes back with
// the untranslated sentinel and the file goes on.
type Orchestrator struct {
	backend        Backend
	maxRetries     int
	backoff        BackoffPolicy
	interCallDelay time.Duration
	sleep          sleepFunc
}

// NewOrchestrator creates an orchestrator. maxRetries is the total number of
// attempts per unit; baseDelay seeds the exponential backoff between them;
// interCallDelay paces successive batch calls and may be zero.
func NewOrchestrator(backend Backend, maxRetries int, baseDelay, interCallDelay time.Duration) *Orchestrator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Orchestrator{
		backend:        backend,
		maxRetries:     maxRetries,
		backoff:        ExponentialBackoff(baseDelay),
		interCallDelay: interCallDelay,
		sleep:          sleepContext,
	}
}

// Translate translates one span. Whitespace-only input returns immediately
// without a backend call.
func (o *Orchestrator) Translate(ctx context.Context, text, contextBefore, contextAfter string) Unit {
	if strings.TrimSpace(text) == "" {
		return Unit{Original: text, Translated: text}
	}

	protected, mappings := guard.Protect(text)

	out, err := retry(ctx, o.maxRetries, o.backoff, o.sleep, func() (string, error) {
		return o.backend.Translate(ctx, protected, contextBefore, contextAfter)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("text", textutil.Truncate(text, 40)).
			Msg("Translation failed, leaving text untranslated")
		return Unit{
			Original:      text,
			Translated:    text,
			ContextBefore: contextBefore,
			ContextAfter:  contextAfter,
		}
	}

	translated := guard.Restore(strings.TrimSpace(out), mappings)
	if translated == "" {
		translated = text
	}

	return Unit{
		Original:      text,
		Translated:    translated,
		ContextBefore: contextBefore,
		ContextAfter:  contextAfter,
		ModelUsed:     o.backend.Model(),
	}
}

// TranslateBatch translates requests sequentially, preserving input order.
// A small delay between calls keeps the tool under external rate limits; it
// is pacing, not correctness.
func (o *Orchestrator) TranslateBatch(ctx context.Context, reqs []Request) []Unit {
	units := make([]Unit, 0, len(reqs))
	for i, r := range reqs {
		units = append(units, o.Translate(ctx, r.Text, r.ContextBefore, r.ContextAfter))
		if o.interCallDelay > 0 && i < len(reqs)-1 {
			if err := o.sleep(ctx, o.interCallDelay); err != nil {
				// Cancelled mid-batch: remaining units come back untranslated.
				for _, rest := range reqs[i+1:] {
					units = append(units, Unit{Original: rest.Text, Translated: rest.Text})
				}
				break
			}
		}
	}
	return units
}
