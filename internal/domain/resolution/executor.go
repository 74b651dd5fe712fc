package resolution

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Executor fans a question out to every configured class of the active
// model family and collects whatever succeeded.
type Executor struct {
	backend SearchBackend
	timeout time.Duration
	limit   int
	logger  *slog.Logger
}

// NewExecutor constructs the retrieval strategy executor.
func NewExecutor(backend SearchBackend, callTimeout time.Duration, limit int, logger *slog.Logger) *Executor {
	if limit <= 0 {
		limit = 1
	}
	return &Executor{
		backend: backend,
		timeout: callTimeout,
		limit:   limit,
		logger:  logger.With("component", "resolution.executor"),
	}
}

// outcome is the settled result of one retrieval call. Failures stay local
// to their slot and never abort sibling calls.
type outcome struct {
	hits []RetrievalHit
	err  error
}

// Retrieve runs one nearest-neighbor query per family class concurrently
// and returns the surviving hits in configured class order, so downstream
// tie-breaking is deterministic regardless of completion order.
//
// When none of the family's classes exist the backend is not queried
// further and an empty set is returned: the family simply is not
// configured yet.
func (e *Executor) Retrieve(ctx context.Context, family ModelFamily, query string) []RetrievalHit {
	classes := family.Classes()
	if !e.anyClassExists(ctx, classes) {
		e.logger.Warn("class guard failed, no classes configured", "family", family)
		return nil
	}

	settled := make([]outcome, len(classes))
	var wg sync.WaitGroup
	for i, class := range classes {
		wg.Add(1)
		go func(slot int, class string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			hits, err := e.backend.NearestNeighbor(callCtx, class, query, e.limit)
			settled[slot] = outcome{hits: hits, err: err}
		}(i, class)
	}
	wg.Wait()

	var hits []RetrievalHit
	for i, result := range settled {
		if result.err != nil {
			e.logger.Warn("retrieval call dropped", "class", classes[i], "error", result.err)
			continue
		}
		hits = append(hits, result.hits...)
	}
	return hits
}

func (e *Executor) anyClassExists(ctx context.Context, classes []string) bool {
	for _, class := range classes {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		exists, err := e.backend.ClassExists(callCtx, class)
		cancel()
		if err != nil {
			e.logger.Warn("class existence check failed", "class", class, "error", err)
			continue
		}
		if exists {
			return true
		}
	}
	return false
}
