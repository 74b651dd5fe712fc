package resolution

import (
	"context"
	"errors"
)

// Backend call failures are normalized onto these sentinels so callers can
// treat every adapter uniformly.
var (
	// ErrBackendUnavailable covers connection refusal, 5xx responses and
	// an open circuit breaker.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrBackendTimeout covers calls exceeding their deadline.
	ErrBackendTimeout = errors.New("search backend timed out")
	// ErrNotSupported is returned by adapters implementing a capability
	// subset; callers treat it as a declined stage, not a failure.
	ErrNotSupported = errors.New("capability not supported by this backend")
)

// RetrievalHit is one nearest-neighbor match. Ephemeral: produced per query
// and consumed by the reconciler.
type RetrievalHit struct {
	Class     string
	Question  string
	Answer    string
	Certainty float64
	Distance  float64
}

// Extraction is the outcome of an extractive question-answering query.
type Extraction struct {
	HasAnswer bool
	Result    string
}

// Generation is the outcome of a generative completion query.
type Generation struct {
	SingleResult string
}

// SearchBackend is the capability set of a multi-class semantic search
// service. Any backend may implement a subset and return ErrNotSupported
// for the rest.
type SearchBackend interface {
	// NearestNeighbor returns up to limit matches ordered by descending
	// certainty as reported by the backend.
	NearestNeighbor(ctx context.Context, class, query string, limit int) ([]RetrievalHit, error)
	// QuestionAnswering runs extractive QA over the given text property.
	QuestionAnswering(ctx context.Context, class, query, property string) (Extraction, error)
	// Generate produces a completion conditioned on the best-matching
	// object, substituting its fields into the prompt template.
	Generate(ctx context.Context, class, query, prompt string) (Generation, error)
	ClassExists(ctx context.Context, class string) (bool, error)
}

// ModelFamily selects which vectorizer backend's classes the pipeline
// queries.
type ModelFamily string

const (
	FamilyHuggingFace ModelFamily = "HuggingFace"
	FamilyOpenAI      ModelFamily = "OpenAI"
)

// ParseFamily validates a user-provided family name.
func ParseFamily(name string) (ModelFamily, bool) {
	switch ModelFamily(name) {
	case FamilyHuggingFace:
		return FamilyHuggingFace, true
	case FamilyOpenAI:
		return FamilyOpenAI, true
	default:
		return "", false
	}
}

// PrimaryClass is the fully indexed class for the family.
func (f ModelFamily) PrimaryClass() string {
	return string(f)
}

// InvertedClass is the variant whose answer property is excluded from the
// search index, so matches come from question similarity alone.
func (f ModelFamily) InvertedClass() string {
	return string(f) + "Inverted"
}

// Classes lists the family's configured collections in retrieval order.
// The order is what makes certainty ties deterministic downstream.
func (f ModelFamily) Classes() []string {
	return []string{f.PrimaryClass(), f.InvertedClass()}
}
