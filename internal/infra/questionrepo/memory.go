package questionrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

// MemoryRepository is an in-memory question.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]question.Question
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]question.Question)}
}

// Insert implements question.Repository.
func (r *MemoryRepository) Insert(_ context.Context, q question.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[q.ID] = q
	return nil
}

// Get implements question.Repository.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (question.Question, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	return record, ok, nil
}

// Recent implements question.Repository.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]question.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]question.Question, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// SetResponse implements question.Repository with the same claim semantics
// as the Postgres variant.
func (r *MemoryRepository) SetResponse(_ context.Context, id uuid.UUID, response string, generated bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || record.Response != nil {
		return false, nil
	}
	respondedAt := util.NowUTC()
	record.Response = &response
	record.RespondedAt = &respondedAt
	record.Generated = generated
	r.records[id] = record
	return true, nil
}

// SetRating implements question.Repository.
func (r *MemoryRepository) SetRating(_ context.Context, id uuid.UUID, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil
	}
	record.Rating = &rating
	r.records[id] = record
	return nil
}

var _ question.Repository = (*MemoryRepository)(nil)
