package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

// ValkeyBus distributes question events over Valkey pub/sub so multiple
// instances see every submission and answer.
type ValkeyBus struct {
	client  valkey.Client
	channel string
	logger  *slog.Logger
}

// NewValkeyBus constructs a Valkey-backed bus.
func NewValkeyBus(client valkey.Client, channel string, logger *slog.Logger) *ValkeyBus {
	if channel == "" {
		channel = "faq:questions"
	}
	return &ValkeyBus{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "eventbus.valkey"),
	}
}

// Publish implements question.Bus.
func (b *ValkeyBus) Publish(ctx context.Context, event question.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	cmd := b.client.B().Publish().Channel(b.channel).Message(string(payload)).Build()
	return b.client.Do(ctx, cmd).Error()
}

// Subscribe implements question.Bus. The channel closes when ctx is
// cancelled.
func (b *ValkeyBus) Subscribe(ctx context.Context) (<-chan question.Event, error) {
	out := make(chan question.Event, 16)
	go func() {
		defer close(out)
		err := b.client.Receive(ctx, b.client.B().Subscribe().Channel(b.channel).Build(), func(msg valkey.PubSubMessage) {
			var event question.Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				b.logger.Warn("event decode failed", "error", err)
				return
			}
			select {
			case out <- event:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			b.logger.Error("subscription terminated", "error", err)
		}
	}()
	return out, nil
}

var _ question.Bus = (*ValkeyBus)(nil)
