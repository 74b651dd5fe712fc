package question

import (
	"context"

	"github.com/google/uuid"
)

// Repository encapsulates persistence for question records.
type Repository interface {
	Insert(ctx context.Context, q Question) error
	Get(ctx context.Context, id uuid.UUID) (Question, bool, error)
	// Recent returns the newest records first, capped at limit.
	Recent(ctx context.Context, limit int) ([]Question, error)
	// SetResponse writes the resolved answer and responded-at timestamp.
	// The write only applies while the response is still unset and the
	// return value reports whether this caller won the claim, which is
	// what makes duplicate trigger delivery safe.
	SetResponse(ctx context.Context, id uuid.UUID, response string, generated bool) (bool, error)
	SetRating(ctx context.Context, id uuid.UUID, rating int) error
}
