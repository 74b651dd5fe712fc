package questionrepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

func TestMemoryRecentNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	var ids []uuid.UUID
	for i := 0; i < 30; i++ {
		q := question.Question{ID: uuid.New(), Text: "q", CreatedAt: base.Add(time.Duration(i) * time.Second)}
		ids = append(ids, q.ID)
		require.NoError(t, repo.Insert(ctx, q))
	}

	records, err := repo.Recent(ctx, 25)
	require.NoError(t, err)
	require.Len(t, records, 25)
	require.Equal(t, ids[29], records[0].ID)
	require.Equal(t, ids[5], records[24].ID)
}

func TestMemorySetResponseClaim(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	q := question.Question{ID: uuid.New(), Text: "q", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, q))

	claimed, err := repo.SetResponse(ctx, q.ID, `[{"answer":"first"}]`, false)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = repo.SetResponse(ctx, q.ID, `[{"answer":"second"}]`, true)
	require.NoError(t, err)
	require.False(t, claimed)

	record, found, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[{"answer":"first"}]`, *record.Response)
	require.False(t, record.Generated)
	require.NotNil(t, record.RespondedAt)
}

func TestMemorySetResponseConcurrentSingleWinner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	q := question.Question{ID: uuid.New(), Text: "q", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, q))

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.SetResponse(ctx, q.ID, `[{"answer":"race"}]`, false)
			require.NoError(t, err)
			wins <- claimed
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for claimed := range wins {
		if claimed {
			winners++
		}
	}
	require.Equal(t, 1, winners)
}

func TestMemorySetResponseUnknownID(t *testing.T) {
	repo := NewMemoryRepository()
	claimed, err := repo.SetResponse(context.Background(), uuid.New(), "x", false)
	require.NoError(t, err)
	require.False(t, claimed)
}

func TestMemorySetRating(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	q := question.Question{ID: uuid.New(), Text: "q", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, q))
	require.NoError(t, repo.SetRating(ctx, q.ID, 5))

	record, _, err := repo.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 5, *record.Rating)
}
