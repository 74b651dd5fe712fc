package resolution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetrieveCollectsAllClasses(t *testing.T) {
	backend := &stubBackend{
		nearestFn: func(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error) {
			// The second class answers first to prove completion order
			// does not leak into the result order.
			if class == FamilyOpenAI.PrimaryClass() {
				time.Sleep(20 * time.Millisecond)
			}
			return []RetrievalHit{{Class: class, Question: "q", Answer: "a", Certainty: 0.9}}, nil
		},
	}

	executor := NewExecutor(backend, time.Second, 1, newTestLogger())
	hits := executor.Retrieve(context.Background(), FamilyOpenAI, "question")

	require.Len(t, hits, 2)
	require.Equal(t, "OpenAI", hits[0].Class)
	require.Equal(t, "OpenAIInverted", hits[1].Class)
}

func TestRetrieveDropsFailedCalls(t *testing.T) {
	backend := &stubBackend{
		nearestFn: func(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error) {
			if class == FamilyHuggingFace.PrimaryClass() {
				return nil, ErrBackendTimeout
			}
			return []RetrievalHit{{Class: class, Question: "q", Answer: "a", Certainty: 0.8}}, nil
		},
	}

	executor := NewExecutor(backend, time.Second, 1, newTestLogger())
	hits := executor.Retrieve(context.Background(), FamilyHuggingFace, "question")

	require.Len(t, hits, 1)
	require.Equal(t, "HuggingFaceInverted", hits[0].Class)
}

func TestRetrieveSkipsWhenNoClassExists(t *testing.T) {
	var queried bool
	backend := &stubBackend{
		classExistsFn: func(ctx context.Context, class string) (bool, error) {
			return false, nil
		},
		nearestFn: func(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error) {
			queried = true
			return nil, nil
		},
	}

	executor := NewExecutor(backend, time.Second, 1, newTestLogger())
	hits := executor.Retrieve(context.Background(), FamilyOpenAI, "question")

	require.Empty(t, hits)
	require.False(t, queried)
}

func TestRetrieveClassGuardTreatsErrorsAsContinue(t *testing.T) {
	backend := &stubBackend{
		classExistsFn: func(ctx context.Context, class string) (bool, error) {
			if class == FamilyOpenAI.PrimaryClass() {
				return false, errors.New("schema endpoint down")
			}
			return true, nil
		},
		nearestFn: func(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error) {
			return []RetrievalHit{{Class: class, Question: "q", Answer: "a", Certainty: 0.8}}, nil
		},
	}

	executor := NewExecutor(backend, time.Second, 1, newTestLogger())
	hits := executor.Retrieve(context.Background(), FamilyOpenAI, "question")

	require.Len(t, hits, 2)
}

func TestFamilyClasses(t *testing.T) {
	require.Equal(t, []string{"HuggingFace", "HuggingFaceInverted"}, FamilyHuggingFace.Classes())
	require.Equal(t, []string{"OpenAI", "OpenAIInverted"}, FamilyOpenAI.Classes())

	_, ok := ParseFamily("openai")
	require.False(t, ok)
	family, ok := ParseFamily("OpenAI")
	require.True(t, ok)
	require.Equal(t, FamilyOpenAI, family)
}
