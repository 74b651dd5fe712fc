package resolution

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

// AnswerSink is the persistence gateway the pipeline writes through.
// question.Repository satisfies it.
type AnswerSink interface {
	SetResponse(ctx context.Context, id uuid.UUID, response string, generated bool) (bool, error)
}

// Service resolves one freshly asked question into exactly one persisted
// answer.
type Service interface {
	Resolve(ctx context.Context, q question.Question) (ResolvedAnswer, error)
}

type service struct {
	cfg        Config
	executor   *Executor
	reconciler *Reconciler
	fallback   *FallbackChain
	sink       AnswerSink
	bus        question.Bus
	metrics    *metrics.ResolutionMetrics
	logger     *slog.Logger
}

// NewService wires up the resolution pipeline.
func NewService(cfg Config, backend SearchBackend, sink AnswerSink, bus question.Bus, m *metrics.ResolutionMetrics, logger *slog.Logger) Service {
	cfg = cfg.withDefaults()
	return &service{
		cfg:        cfg,
		executor:   NewExecutor(backend, cfg.CallTimeout, cfg.RetrievalLimit, logger),
		reconciler: NewReconciler(cfg.CertaintyThreshold),
		fallback:   NewFallbackChain(backend, cfg.CallTimeout, cfg.GenerativePrompt, cfg.Apology, logger),
		sink:       sink,
		bus:        bus,
		metrics:    m,
		logger:     logger.With("component", "resolution.service"),
	}
}

// Resolve runs retrieval, reconciliation and, when the semantic candidate
// is missing or unconvincing, the fallback chain. The result is always an
// answer; resolution exhaustion degrades to the canned apology instead of
// an error. Only the persistence write can fail.
func (s *service) Resolve(ctx context.Context, q question.Question) (ResolvedAnswer, error) {
	start := time.Now()

	hits := s.executor.Retrieve(ctx, s.cfg.Family, q.Text)
	verdict := s.reconciler.Reconcile(hits)

	var answer ResolvedAnswer
	if verdict.Found && verdict.Accepted {
		answer = verdict.Candidate
	} else {
		if verdict.Found {
			s.logger.Info("semantic certainty below threshold",
				"id", q.ID, "certainty", *verdict.Candidate.Certainty, "threshold", s.cfg.CertaintyThreshold)
		}
		answer = s.fallback.Resolve(ctx, s.cfg.Family, q.Text)
	}

	encoded, err := EncodeResponse(answer)
	if err != nil {
		return ResolvedAnswer{}, apperrors.Wrap("resolution_error", "failed to encode answer", err)
	}

	generated := answer.Source == SourceGenerative
	claimed, err := s.sink.SetResponse(ctx, q.ID, encoded, generated)
	if err != nil {
		return ResolvedAnswer{}, apperrors.Wrap("resolution_error", "failed to persist answer", err)
	}
	if !claimed {
		// Duplicate trigger delivery; another run already answered.
		s.logger.Info("question already answered, skipping", "id", q.ID)
		return answer, nil
	}

	s.metrics.ObserveResolution(string(answer.Source), time.Since(start))
	s.logger.Info("question resolved", "id", q.ID, "source", answer.Source)

	respondedAt := util.NowUTC()
	q.Response = &encoded
	q.RespondedAt = &respondedAt
	q.Generated = generated
	if err := s.bus.Publish(ctx, question.Event{Kind: question.EventAnswered, Question: q}); err != nil {
		// The answer is durable; subscribers will catch up on reload.
		s.logger.Warn("answered event publish failed", "id", q.ID, "error", err)
	}
	return answer, nil
}
