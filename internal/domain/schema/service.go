package schema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

// Service exposes the administrative schema operations. Both return tagged
// results instead of errors so the caller can render the reason directly.
type Service interface {
	Setup(ctx context.Context, family resolution.ModelFamily) Result
	Seed(ctx context.Context, family resolution.ModelFamily) SeedResult
}

// Config holds runtime knobs for schema administration.
type Config struct {
	BatchSize int
}

type service struct {
	cfg       Config
	manager   Manager
	dataset   DatasetSource
	estimator *metrics.TokenEstimator
	metrics   *metrics.ResolutionMetrics
	logger    *slog.Logger
}

// NewService wires up the schema domain.
func NewService(cfg Config, manager Manager, dataset DatasetSource, estimator *metrics.TokenEstimator, m *metrics.ResolutionMetrics, logger *slog.Logger) Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &service{
		cfg:       cfg,
		manager:   manager,
		dataset:   dataset,
		estimator: estimator,
		metrics:   m,
		logger:    logger.With("component", "schema.service"),
	}
}

// Setup deletes and recreates the family's classes with their vectorizer
// configuration, then returns the resulting schema description.
func (s *service) Setup(ctx context.Context, family resolution.ModelFamily) Result {
	classes := ClassesFor(family)
	if len(classes) == 0 {
		s.logger.Warn("no model specified")
		return failed("no model specified", OperationFail)
	}

	for _, class := range classes {
		if err := s.manager.DeleteClass(ctx, class.Name); err != nil {
			s.logger.Error("class deletion failed", "class", class.Name, "error", err)
			return failed(fmt.Sprintf("failed to create schema: %v", err), OperationFail)
		}
	}

	s.logger.Info("creating classes", "family", family)
	for _, class := range classes {
		if err := s.manager.CreateClass(ctx, class); err != nil {
			s.logger.Error("class creation failed", "class", class.Name, "error", err)
			return failed(fmt.Sprintf("failed to create schema: %v", err), OperationFail)
		}
	}

	description, err := s.manager.GetSchema(ctx)
	if err != nil {
		return failed(fmt.Sprintf("failed to get schema: %v", err), OperationFail)
	}
	return ok(description)
}

// Seed fetches the hosted FAQ dataset and batch-inserts it into both of
// the family's classes.
func (s *service) Seed(ctx context.Context, family resolution.ModelFamily) SeedResult {
	classes := family.Classes()
	if _, valid := resolution.ParseFamily(string(family)); !valid {
		s.logger.Warn("no model specified")
		return SeedResult{Failure: &Failure{Reason: "no model specified", Operation: OperationFail}}
	}

	// Reachability check before pulling the dataset, matching the legacy
	// admin flow.
	if _, err := s.manager.GetSchema(ctx); err != nil {
		return SeedResult{Failure: &Failure{Reason: err.Error(), Operation: OperationError}}
	}

	entries, err := s.dataset.Fetch(ctx)
	if err != nil {
		s.logger.Error("dataset fetch failed", "error", err)
		return SeedResult{Failure: &Failure{Reason: fmt.Sprintf("failed to fetch data: %v", err), Operation: OperationFail}}
	}
	s.logger.Info("seeding dataset", "family", family, "entries", len(entries), "tokens", s.estimateTokens(entries))

	total := BatchOutcome{}
	batch := make([]Object, 0, s.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		outcome, err := s.manager.BatchInsert(ctx, batch)
		if err != nil {
			return err
		}
		total.Inserted += outcome.Inserted
		total.Errors = append(total.Errors, outcome.Errors...)
		s.metrics.SeedObjects(outcome.Inserted)
		batch = batch[:0]
		return nil
	}

	for i, entry := range entries {
		for _, class := range classes {
			batch = append(batch, Object{
				Class: class,
				Properties: map[string]any{
					"question": entry.Question,
					"answer":   entry.Answer,
				},
			})
			if len(batch) >= s.cfg.BatchSize {
				s.logger.Info("seeding batch", "progress", i+1, "of", len(entries))
				if err := flush(); err != nil {
					return SeedResult{Failure: &Failure{Reason: fmt.Sprintf("failed seeding batch: %v", err), Operation: OperationFail}}
				}
			}
		}
	}
	if err := flush(); err != nil {
		return SeedResult{Failure: &Failure{Reason: fmt.Sprintf("failed seeding batch: %v", err), Operation: OperationFail}}
	}

	s.logger.Info("seeding complete", "family", family, "inserted", total.Inserted, "errors", len(total.Errors))
	return SeedResult{Outcome: &total}
}

func (s *service) estimateTokens(entries []QandA) int {
	if s.estimator == nil {
		return 0
	}
	tokens := 0
	for _, entry := range entries {
		tokens += s.estimator.Count(entry.Question) + s.estimator.Count(entry.Answer)
	}
	return tokens
}
