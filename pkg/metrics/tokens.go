package metrics

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// TokenEstimator counts tokens locally so prompt and seeding volume can be
// logged without an extra API round trip.
type TokenEstimator struct {
	model string

	once     sync.Once
	encoding *tiktoken.Tiktoken
	initErr  error
}

// NewTokenEstimator builds an estimator for the given OpenAI model name.
func NewTokenEstimator(model string) *TokenEstimator {
	if strings.TrimSpace(model) == "" {
		model = "gpt-3.5-turbo"
	}
	return &TokenEstimator{model: model}
}

// Count returns the token count for text, or 0 when the encoding is
// unavailable (offline environments without the cached BPE files).
func (e *TokenEstimator) Count(text string) int {
	e.once.Do(func() {
		e.encoding, e.initErr = tiktoken.EncodingForModel(e.model)
	})
	if e.initErr != nil || e.encoding == nil || text == "" {
		return 0
	}
	return len(e.encoding.Encode(text, nil, nil))
}
