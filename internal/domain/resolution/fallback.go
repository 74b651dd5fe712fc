package resolution

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// FallbackChain is the ordered degradation policy used when semantic
// search yields nothing convincing: extractive QA, then a generative
// paraphrase, then a canned apology. The apology stage cannot fail.
type FallbackChain struct {
	backend SearchBackend
	timeout time.Duration
	prompt  string
	apology string
	logger  *slog.Logger
}

// NewFallbackChain constructs the chain.
func NewFallbackChain(backend SearchBackend, callTimeout time.Duration, prompt, apology string, logger *slog.Logger) *FallbackChain {
	if strings.TrimSpace(apology) == "" {
		apology = DefaultApology
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultGenerativePrompt
	}
	return &FallbackChain{
		backend: backend,
		timeout: callTimeout,
		prompt:  prompt,
		apology: apology,
		logger:  logger.With("component", "resolution.fallback"),
	}
}

// Resolve runs both degradation stages against the family's primary class
// concurrently. Errors at either stage mean that stage declined; they are
// never propagated. When both succeed the generative result wins because
// it reads more naturally than a raw extraction span.
func (f *FallbackChain) Resolve(ctx context.Context, family ModelFamily, query string) ResolvedAnswer {
	class := family.PrimaryClass()

	var (
		wg         sync.WaitGroup
		extraction Extraction
		generation Generation
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		result, err := f.backend.QuestionAnswering(callCtx, class, query, "question")
		if err != nil {
			f.logger.Warn("qa extraction declined", "class", class, "error", err)
			return
		}
		extraction = result
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()
		result, err := f.backend.Generate(callCtx, class, query, f.prompt)
		if err != nil {
			f.logger.Warn("generative stage declined", "class", class, "error", err)
			return
		}
		generation = result
	}()
	wg.Wait()

	if text := strings.TrimSpace(generation.SingleResult); text != "" {
		return ResolvedAnswer{Text: text, Source: SourceGenerative}
	}
	if extraction.HasAnswer {
		if text := strings.TrimSpace(extraction.Result); text != "" {
			return ResolvedAnswer{Text: text, Source: SourceQAExtraction}
		}
	}
	return ResolvedAnswer{Text: f.apology, Source: SourceFallback}
}
