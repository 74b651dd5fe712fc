package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/domain/schema"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

// Config holds the connection settings for a Weaviate instance.
type Config struct {
	BaseURL        string
	APIKey         string
	OpenAIKey      string
	HuggingFaceKey string
	AzureKey       string
	Timeout        time.Duration
	BreakerEnabled bool
	MaxFailures    uint32
	OpenFor        time.Duration
}

type restResult struct {
	status int
	body   []byte
}

// Client talks to Weaviate over its GraphQL and REST endpoints. It
// implements both resolution.SearchBackend and schema.Manager. The
// connection settings are immutable after construction and safe to share
// across concurrent resolution runs.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[restResult]
	metrics    *metrics.ResolutionMetrics
	logger     *slog.Logger
}

// NewClient constructs the client.
func NewClient(cfg Config, m *metrics.ResolutionMetrics, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("weaviate base url cannot be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    m,
		logger:     logger.With("component", "weaviate.client"),
	}
	if cfg.BreakerEnabled {
		maxFailures := cfg.MaxFailures
		if maxFailures == 0 {
			maxFailures = 5
		}
		openFor := cfg.OpenFor
		if openFor <= 0 {
			openFor = 30 * time.Second
		}
		client.breaker = gobreaker.NewCircuitBreaker[restResult](gobreaker.Settings{
			Name:    "weaviate",
			Timeout: openFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		})
	}
	return client, nil
}

// graphql response payloads

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data struct {
		Get map[string][]objectPayload `json:"Get"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type objectPayload struct {
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Additional additionalPayload `json:"_additional"`
}

type additionalPayload struct {
	Certainty float64            `json:"certainty"`
	Distance  float64            `json:"distance"`
	Answer    *extractionPayload `json:"answer"`
	Generate  *generatePayload   `json:"generate"`
}

type extractionPayload struct {
	HasAnswer bool   `json:"hasAnswer"`
	Result    string `json:"result"`
}

type generatePayload struct {
	SingleResult string `json:"singleResult"`
	Error        string `json:"error"`
}

// NearestNeighbor implements resolution.SearchBackend.
func (c *Client) NearestNeighbor(ctx context.Context, class, query string, limit int) ([]resolution.RetrievalHit, error) {
	gql := fmt.Sprintf(
		`{ Get { %s(nearText: {concepts: [%s]}, limit: %d) { question answer _additional { certainty distance } } } }`,
		class, strconv.Quote(query), limit,
	)
	objects, err := c.get(ctx, "near_text", class, gql)
	if err != nil {
		return nil, err
	}
	hits := make([]resolution.RetrievalHit, 0, len(objects))
	for _, obj := range objects {
		hits = append(hits, resolution.RetrievalHit{
			Class:     class,
			Question:  obj.Question,
			Answer:    obj.Answer,
			Certainty: obj.Additional.Certainty,
			Distance:  obj.Additional.Distance,
		})
	}
	return hits, nil
}

// QuestionAnswering implements resolution.SearchBackend.
func (c *Client) QuestionAnswering(ctx context.Context, class, query, property string) (resolution.Extraction, error) {
	gql := fmt.Sprintf(
		`{ Get { %s(ask: {question: %s, properties: [%s]}, limit: 1) { question answer _additional { answer { hasAnswer result } } } } }`,
		class, strconv.Quote(query), strconv.Quote(property),
	)
	objects, err := c.get(ctx, "ask", class, gql)
	if err != nil {
		return resolution.Extraction{}, err
	}
	if len(objects) == 0 || objects[0].Additional.Answer == nil {
		return resolution.Extraction{}, nil
	}
	extraction := objects[0].Additional.Answer
	return resolution.Extraction{HasAnswer: extraction.HasAnswer, Result: extraction.Result}, nil
}

// Generate implements resolution.SearchBackend. The {question} placeholder
// is substituted locally; {answer} is left for Weaviate to fill from the
// matched object.
func (c *Client) Generate(ctx context.Context, class, query, prompt string) (resolution.Generation, error) {
	prompt = strings.ReplaceAll(prompt, "{question}", query)
	gql := fmt.Sprintf(
		`{ Get { %s(nearText: {concepts: [%s]}, limit: 1) { question answer _additional { generate(singleResult: {prompt: %s}) { singleResult error } } } } }`,
		class, strconv.Quote(query), strconv.Quote(prompt),
	)
	objects, err := c.get(ctx, "generate", class, gql)
	if err != nil {
		return resolution.Generation{}, err
	}
	if len(objects) == 0 || objects[0].Additional.Generate == nil {
		return resolution.Generation{}, nil
	}
	generated := objects[0].Additional.Generate
	if generated.Error != "" {
		return resolution.Generation{}, fmt.Errorf("generative module: %s", generated.Error)
	}
	return resolution.Generation{SingleResult: generated.SingleResult}, nil
}

// ClassExists implements resolution.SearchBackend.
func (c *Client) ClassExists(ctx context.Context, class string) (bool, error) {
	result, err := c.do(ctx, "class_exists", http.MethodGet, "/v1/schema/"+url.PathEscape(class), nil)
	if err != nil {
		return false, err
	}
	switch result.status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected schema status %d", result.status)
	}
}

func (c *Client) get(ctx context.Context, operation, class, gql string) ([]objectPayload, error) {
	result, err := c.do(ctx, operation, http.MethodPost, "/v1/graphql", graphqlRequest{Query: gql})
	if err != nil {
		return nil, err
	}
	if result.status != http.StatusOK {
		return nil, fmt.Errorf("graphql status %d: %s", result.status, truncate(result.body))
	}
	var decoded graphqlResponse
	if err := json.Unmarshal(result.body, &decoded); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)
	}
	return decoded.Data.Get[class], nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload any) (restResult, error) {
	call := func() (restResult, error) {
		var body io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return restResult{}, fmt.Errorf("encode request: %w", err)
			}
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, body)
		if err != nil {
			return restResult{}, err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return restResult{}, err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return restResult{}, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return restResult{}, fmt.Errorf("server status %d: %s", resp.StatusCode, truncate(data))
		}
		return restResult{status: resp.StatusCode, body: data}, nil
	}

	var (
		result restResult
		err    error
	)
	if c.breaker != nil {
		result, err = c.breaker.Execute(call)
	} else {
		result, err = call()
	}
	if err != nil {
		err = c.classify(operation, err)
	}
	return result, err
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if c.cfg.OpenAIKey != "" {
		req.Header.Set("X-OpenAI-Api-Key", c.cfg.OpenAIKey)
	}
	if c.cfg.HuggingFaceKey != "" {
		req.Header.Set("X-HuggingFace-Api-Key", c.cfg.HuggingFaceKey)
	}
	if c.cfg.AzureKey != "" {
		req.Header.Set("X-Azure-Api-Key", c.cfg.AzureKey)
	}
}

// classify maps transport failures onto the pipeline's error taxonomy.
func (c *Client) classify(operation string, err error) error {
	if c.metrics != nil {
		c.metrics.BackendError(operation)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %v", resolution.ErrBackendTimeout, operation, err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %s: circuit open", resolution.ErrBackendUnavailable, operation)
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: %s: %v", resolution.ErrBackendTimeout, operation, err)
		}
		return fmt.Errorf("%w: %s: %v", resolution.ErrBackendUnavailable, operation, err)
	}
}

func truncate(body []byte) string {
	const limit = 512
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

var _ resolution.SearchBackend = (*Client)(nil)
var _ schema.Manager = (*Client)(nil)
