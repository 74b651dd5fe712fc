package resolution

import (
	"encoding/json"
	"errors"
)

// Source identifies which stage produced the final answer.
type Source string

const (
	SourceSemantic     Source = "semantic"
	SourceQAExtraction Source = "qa_extraction"
	SourceGenerative   Source = "generative"
	SourceFallback     Source = "fallback"
)

// ResolvedAnswer is the single output of the pipeline for one question.
type ResolvedAnswer struct {
	Text      string
	Source    Source
	Certainty *float64
}

// responseItem is the wire shape stored on the question record. The
// response is a single-element array for compatibility with the historic
// multi-candidate format still understood by clients.
type responseItem struct {
	Answer    string   `json:"answer"`
	Certainty *float64 `json:"certainty,omitempty"`
	Source    Source   `json:"source,omitempty"`
}

// EncodeResponse serializes a resolved answer into the persisted format.
func EncodeResponse(answer ResolvedAnswer) (string, error) {
	payload, err := json.Marshal([]responseItem{{
		Answer:    answer.Text,
		Certainty: answer.Certainty,
		Source:    answer.Source,
	}})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// DecodeResponse parses a persisted response back into a resolved answer
// for rendering. Multi-candidate payloads from the legacy format decode to
// their first entry.
func DecodeResponse(encoded string) (ResolvedAnswer, error) {
	var items []responseItem
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return ResolvedAnswer{}, err
	}
	if len(items) == 0 {
		return ResolvedAnswer{}, errors.New("response payload is empty")
	}
	return ResolvedAnswer{
		Text:      items[0].Answer,
		Certainty: items[0].Certainty,
		Source:    items[0].Source,
	}, nil
}
