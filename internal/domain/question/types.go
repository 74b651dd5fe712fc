package question

import (
	"time"

	"github.com/google/uuid"
)

// Question is a single chat entry. The record is immutable once written
// except for the response fields, which are owned by the resolution
// pipeline, and the rating, which is owned by the asking user.
type Question struct {
	ID          uuid.UUID  `json:"id"`
	Text        string     `json:"question"`
	AskedBy     string     `json:"askedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	Response    *string    `json:"response,omitempty"`
	Generated   bool       `json:"generated,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
}

// Answered reports whether the pipeline has already written a response.
func (q Question) Answered() bool {
	return q.Response != nil
}
