package eventbus

import (
	"context"
	"sync"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

// MemoryBus is an in-process question.Bus used for tests and single
// instance deployments.
type MemoryBus struct {
	mu          sync.Mutex
	subscribers map[int]chan question.Event
	nextID      int
}

// NewMemoryBus constructs the bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subscribers: make(map[int]chan question.Event)}
}

// Publish implements question.Bus. Slow subscribers drop events rather
// than blocking the publisher; durable state lives in the repository.
func (b *MemoryBus) Publish(_ context.Context, event question.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
	return nil
}

// Subscribe implements question.Bus.
func (b *MemoryBus) Subscribe(ctx context.Context) (<-chan question.Event, error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	subscriber := make(chan question.Event, 16)
	b.subscribers[id] = subscriber
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
		close(subscriber)
	}()
	return subscriber, nil
}

var _ question.Bus = (*MemoryBus)(nil)
