package resolution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFallbackPrefersGenerativeWhenBothSucceed(t *testing.T) {
	backend := &stubBackend{
		qaFn: func(ctx context.Context, class, query, property string) (Extraction, error) {
			return Extraction{HasAnswer: true, Result: "extracted span"}, nil
		},
		generateFn: func(ctx context.Context, class, query, prompt string) (Generation, error) {
			return Generation{SingleResult: "a friendly sentence"}, nil
		},
	}

	chain := NewFallbackChain(backend, time.Second, "", "", newTestLogger())
	answer := chain.Resolve(context.Background(), FamilyOpenAI, "question")

	require.Equal(t, "a friendly sentence", answer.Text)
	require.Equal(t, SourceGenerative, answer.Source)
}

func TestFallbackUsesExtractionWhenGenerativeDeclines(t *testing.T) {
	backend := &stubBackend{
		qaFn: func(ctx context.Context, class, query, property string) (Extraction, error) {
			return Extraction{HasAnswer: true, Result: "extracted span"}, nil
		},
		generateFn: func(ctx context.Context, class, query, prompt string) (Generation, error) {
			return Generation{}, ErrBackendUnavailable
		},
	}

	chain := NewFallbackChain(backend, time.Second, "", "", newTestLogger())
	answer := chain.Resolve(context.Background(), FamilyOpenAI, "question")

	require.Equal(t, "extracted span", answer.Text)
	require.Equal(t, SourceQAExtraction, answer.Source)
}

func TestFallbackApologyWhenNothingSucceeds(t *testing.T) {
	backend := &stubBackend{
		qaFn: func(ctx context.Context, class, query, property string) (Extraction, error) {
			return Extraction{}, ErrBackendTimeout
		},
		generateFn: func(ctx context.Context, class, query, prompt string) (Generation, error) {
			return Generation{}, ErrBackendTimeout
		},
	}

	chain := NewFallbackChain(backend, time.Second, "", "", newTestLogger())
	answer := chain.Resolve(context.Background(), FamilyOpenAI, "question")

	require.Equal(t, DefaultApology, answer.Text)
	require.Equal(t, SourceFallback, answer.Source)
	require.Nil(t, answer.Certainty)
}

func TestFallbackApologyWhenExtractionHasNoAnswer(t *testing.T) {
	backend := &stubBackend{
		qaFn: func(ctx context.Context, class, query, property string) (Extraction, error) {
			return Extraction{HasAnswer: false}, nil
		},
		generateFn: func(ctx context.Context, class, query, prompt string) (Generation, error) {
			return Generation{SingleResult: "   "}, nil
		},
	}

	chain := NewFallbackChain(backend, time.Second, "", "custom apology", newTestLogger())
	answer := chain.Resolve(context.Background(), FamilyOpenAI, "question")

	require.Equal(t, "custom apology", answer.Text)
	require.Equal(t, SourceFallback, answer.Source)
}

func TestFallbackQueriesPrimaryClassOnly(t *testing.T) {
	var qaClass, generateClass string
	backend := &stubBackend{
		qaFn: func(ctx context.Context, class, query, property string) (Extraction, error) {
			qaClass = class
			require.Equal(t, "question", property)
			return Extraction{}, nil
		},
		generateFn: func(ctx context.Context, class, query, prompt string) (Generation, error) {
			generateClass = class
			return Generation{}, nil
		},
	}

	chain := NewFallbackChain(backend, time.Second, "", "", newTestLogger())
	chain.Resolve(context.Background(), FamilyHuggingFace, "question")

	require.Equal(t, "HuggingFace", qaClass)
	require.Equal(t, "HuggingFace", generateClass)
}
