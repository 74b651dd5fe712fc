package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/faq-chatbot/internal/domain/schema"
)

// HTTPSource fetches the hosted FAQ dataset from a CDN URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource constructs the source.
func NewHTTPSource(url string) (*HTTPSource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("dataset url cannot be empty")
	}
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Fetch implements schema.DatasetSource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]schema.QandA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: status %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func decode(r io.Reader) ([]schema.QandA, error) {
	var entries []schema.QandA
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return entries, nil
}

var _ schema.DatasetSource = (*HTTPSource)(nil)
