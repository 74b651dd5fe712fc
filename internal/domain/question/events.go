package question

import "context"

// EventKind discriminates bus payloads.
type EventKind string

const (
	// EventCreated fires when a user submits a new question. Delivery is
	// at-least-once; consumers must tolerate duplicates.
	EventCreated EventKind = "question.created"
	// EventAnswered fires after the pipeline persists a response.
	EventAnswered EventKind = "question.answered"
)

// Event carries the full question record so subscribers never need a
// follow-up read.
type Event struct {
	Kind     EventKind `json:"kind"`
	Question Question  `json:"question"`
}

// Bus is the pub/sub channel between the API, the resolver, and live
// client streams.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe delivers events until ctx is cancelled, then closes the
	// returned channel. Each subscriber sees every event.
	Subscribe(ctx context.Context) (<-chan Event, error)
}
