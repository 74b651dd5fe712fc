package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

func TestMemoryBusFanOut(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	first, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	event := question.Event{Kind: question.EventCreated, Question: question.Question{ID: uuid.New(), Text: "q"}}
	require.NoError(t, bus.Publish(ctx, event))

	for _, subscriber := range []<-chan question.Event{first, second} {
		select {
		case got := <-subscriber:
			require.Equal(t, event.Kind, got.Kind)
			require.Equal(t, event.Question.ID, got.Question.ID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestMemoryBusUnsubscribeOnCancel(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	subscriber, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, open := <-subscriber:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after cancellation")
	}

	// Publishing after unsubscribe must not panic or block.
	require.NoError(t, bus.Publish(context.Background(), question.Event{Kind: question.EventCreated}))
}

func TestMemoryBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	subscriber, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		require.NoError(t, bus.Publish(ctx, question.Event{Kind: question.EventCreated}))
	}

	received := 0
	for {
		select {
		case <-subscriber:
			received++
			continue
		default:
		}
		break
	}
	require.Equal(t, 16, received)
}
