package resolution

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

// Worker subscribes to question-created events and starts one independent
// resolution run per question. Runs are unbounded in count and share no
// mutable state.
type Worker struct {
	svc        Service
	bus        question.Bus
	runTimeout time.Duration
	logger     *slog.Logger
}

// NewWorker constructs the resolver worker.
func NewWorker(cfg Config, svc Service, bus question.Bus, logger *slog.Logger) *Worker {
	cfg = cfg.withDefaults()
	return &Worker{
		svc:        svc,
		bus:        bus,
		runTimeout: cfg.RunTimeout,
		logger:     logger.With("component", "resolution.worker"),
	}
}

// Run blocks consuming events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	events, err := w.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("resolver worker started")
	for event := range events {
		if event.Kind != question.EventCreated {
			continue
		}
		if event.Question.Answered() {
			continue
		}
		go w.handle(event.Question)
	}
	return nil
}

func (w *Worker) handle(q question.Question) {
	// Independent of the subscription context: an in-flight resolution
	// finishes even while the server is draining.
	ctx, cancel := context.WithTimeout(context.Background(), w.runTimeout)
	defer cancel()
	if _, err := w.svc.Resolve(ctx, q); err != nil {
		w.logger.Error("resolution run failed", "id", q.ID, "error", err)
	}
}
