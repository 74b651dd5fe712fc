package resolution

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

type stubBackend struct {
	nearestFn     func(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error)
	qaFn          func(ctx context.Context, class, query, property string) (Extraction, error)
	generateFn    func(ctx context.Context, class, query, prompt string) (Generation, error)
	classExistsFn func(ctx context.Context, class string) (bool, error)
}

func (s *stubBackend) NearestNeighbor(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error) {
	if s.nearestFn == nil {
		return nil, ErrNotSupported
	}
	return s.nearestFn(ctx, class, query, limit)
}

func (s *stubBackend) QuestionAnswering(ctx context.Context, class, query, property string) (Extraction, error) {
	if s.qaFn == nil {
		return Extraction{}, ErrNotSupported
	}
	return s.qaFn(ctx, class, query, property)
}

func (s *stubBackend) Generate(ctx context.Context, class, query, prompt string) (Generation, error) {
	if s.generateFn == nil {
		return Generation{}, ErrNotSupported
	}
	return s.generateFn(ctx, class, query, prompt)
}

func (s *stubBackend) ClassExists(ctx context.Context, class string) (bool, error) {
	if s.classExistsFn == nil {
		return true, nil
	}
	return s.classExistsFn(ctx, class)
}

type stubSink struct {
	mu        sync.Mutex
	claimed   bool
	responses map[uuid.UUID]string
	generated map[uuid.UUID]bool
	err       error
}

func newStubSink() *stubSink {
	return &stubSink{
		claimed:   true,
		responses: map[uuid.UUID]string{},
		generated: map[uuid.UUID]bool{},
	}
}

func (s *stubSink) SetResponse(ctx context.Context, id uuid.UUID, response string, generated bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if !s.claimed {
		return false, nil
	}
	s.responses[id] = response
	s.generated[id] = generated
	return true, nil
}

type stubBus struct {
	mu     sync.Mutex
	events []question.Event
	err    error
}

func (s *stubBus) Publish(ctx context.Context, event question.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubBus) Subscribe(ctx context.Context) (<-chan question.Event, error) {
	ch := make(chan question.Event)
	close(ch)
	return ch, nil
}

func (s *stubBus) published() []question.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]question.Event(nil), s.events...)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
