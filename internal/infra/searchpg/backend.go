package searchpg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/domain/schema"
	"github.com/yanqian/faq-chatbot/internal/infra/llm/chatgpt"
)

// Config holds settings for the pgvector-backed search backend.
type Config struct {
	EmbeddingModel string
	Model          string
	Temperature    float32
	// Dimensions must match the embedding model output size.
	Dimensions int
}

type llmClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
	CreateEmbedding(ctx context.Context, req chatgpt.EmbeddingRequest) (chatgpt.EmbeddingResponse, error)
}

// Backend is a local search backend storing FAQ entries in Postgres with
// pgvector, with embeddings computed through the LLM client. It implements
// a capability subset: extractive QA is not supported and generation is
// emulated with a chat completion over the nearest match.
type Backend struct {
	cfg    Config
	pool   *pgxpool.Pool
	llm    llmClient
	logger *slog.Logger

	mu      sync.RWMutex
	classes map[string]schema.Class
}

// NewBackend constructs the backend.
func NewBackend(cfg Config, pool *pgxpool.Pool, llm llmClient, logger *slog.Logger) *Backend {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	return &Backend{
		cfg:     cfg,
		pool:    pool,
		llm:     llm,
		logger:  logger.With("component", "searchpg.backend"),
		classes: make(map[string]schema.Class),
	}
}

// Init prepares the vector extension and the class registry table.
func (b *Backend) Init(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS faq_classes (
			name text PRIMARY KEY,
			definition jsonb NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := b.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("searchpg init: %w", err)
		}
	}
	return nil
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

func tableName(class string) (string, error) {
	if !tableNamePattern.MatchString(class) {
		return "", fmt.Errorf("invalid class name %q", class)
	}
	return "faq_" + strings.ToLower(class), nil
}

// NearestNeighbor implements resolution.SearchBackend.
func (b *Backend) NearestNeighbor(ctx context.Context, class, query string, limit int) ([]resolution.RetrievalHit, error) {
	table, err := tableName(class)
	if err != nil {
		return nil, err
	}
	embedding, err := b.embed(ctx, query)
	if err != nil {
		return nil, b.classify(err)
	}
	rows, err := b.pool.Query(ctx, fmt.Sprintf(`
		SELECT question, answer, embedding <=> $1 AS distance
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, table), pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, b.classify(err)
	}
	defer rows.Close()

	var hits []resolution.RetrievalHit
	for rows.Next() {
		var (
			question string
			answer   string
			distance float64
		)
		if err := rows.Scan(&question, &answer, &distance); err != nil {
			return nil, err
		}
		hits = append(hits, resolution.RetrievalHit{
			Class:    class,
			Question: question,
			Answer:   answer,
			// Cosine distance in [0,2] maps onto the certainty scale.
			Certainty: 1 - distance/2,
			Distance:  distance,
		})
	}
	return hits, rows.Err()
}

// QuestionAnswering implements resolution.SearchBackend.
func (b *Backend) QuestionAnswering(context.Context, string, string, string) (resolution.Extraction, error) {
	return resolution.Extraction{}, resolution.ErrNotSupported
}

// Generate implements resolution.SearchBackend by prompting the chat model
// with the nearest match substituted into the template.
func (b *Backend) Generate(ctx context.Context, class, query, prompt string) (resolution.Generation, error) {
	hits, err := b.NearestNeighbor(ctx, class, query, 1)
	if err != nil {
		return resolution.Generation{}, err
	}
	if len(hits) == 0 {
		return resolution.Generation{}, nil
	}
	prompt = strings.ReplaceAll(prompt, "{answer}", hits[0].Answer)
	prompt = strings.ReplaceAll(prompt, "{question}", query)

	resp, err := b.llm.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       b.cfg.Model,
		Messages:    []chatgpt.Message{{Role: "user", Content: prompt}},
		Temperature: b.cfg.Temperature,
	})
	if err != nil {
		return resolution.Generation{}, b.classify(err)
	}
	if len(resp.Choices) == 0 {
		return resolution.Generation{}, nil
	}
	return resolution.Generation{SingleResult: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

// ClassExists implements resolution.SearchBackend.
func (b *Backend) ClassExists(ctx context.Context, class string) (bool, error) {
	table, err := tableName(class)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := b.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
		return false, b.classify(err)
	}
	return exists, nil
}

// DeleteClass implements schema.Manager.
func (b *Backend) DeleteClass(ctx context.Context, name string) error {
	table, err := tableName(name)
	if err != nil {
		return err
	}
	if _, err := b.pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
		return b.classify(err)
	}
	if _, err := b.pool.Exec(ctx, `DELETE FROM faq_classes WHERE name = $1`, name); err != nil {
		return b.classify(err)
	}
	b.mu.Lock()
	delete(b.classes, name)
	b.mu.Unlock()
	return nil
}

// CreateClass implements schema.Manager.
func (b *Backend) CreateClass(ctx context.Context, class schema.Class) error {
	table, err := tableName(class.Name)
	if err != nil {
		return err
	}
	if _, err := b.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id bigserial PRIMARY KEY,
			question text NOT NULL,
			answer text NOT NULL,
			embedding vector(%d)
		)
	`, table, b.cfg.Dimensions)); err != nil {
		return b.classify(err)
	}
	definition, err := json.Marshal(class)
	if err != nil {
		return err
	}
	if _, err := b.pool.Exec(ctx, `
		INSERT INTO faq_classes (name, definition)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET definition = EXCLUDED.definition
	`, class.Name, definition); err != nil {
		return b.classify(err)
	}
	b.mu.Lock()
	b.classes[class.Name] = class
	b.mu.Unlock()
	return nil
}

// GetSchema implements schema.Manager.
func (b *Backend) GetSchema(ctx context.Context) (schema.Description, error) {
	rows, err := b.pool.Query(ctx, `SELECT definition FROM faq_classes ORDER BY name`)
	if err != nil {
		return schema.Description{}, b.classify(err)
	}
	defer rows.Close()

	var description schema.Description
	for rows.Next() {
		var definition []byte
		if err := rows.Scan(&definition); err != nil {
			return schema.Description{}, err
		}
		var class schema.Class
		if err := json.Unmarshal(definition, &class); err != nil {
			return schema.Description{}, fmt.Errorf("decode class definition: %w", err)
		}
		description.Classes = append(description.Classes, class)
	}
	return description, rows.Err()
}

// BatchInsert implements schema.Manager. Embeddings cover only the
// searchable properties, so inverted classes match on question text alone.
func (b *Backend) BatchInsert(ctx context.Context, objects []schema.Object) (schema.BatchOutcome, error) {
	outcome := schema.BatchOutcome{}
	for _, object := range objects {
		if err := b.insertObject(ctx, object); err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			continue
		}
		outcome.Inserted++
	}
	return outcome, nil
}

func (b *Backend) insertObject(ctx context.Context, object schema.Object) error {
	table, err := tableName(object.Class)
	if err != nil {
		return err
	}
	question, _ := object.Properties["question"].(string)
	answer, _ := object.Properties["answer"].(string)
	if question == "" {
		return errors.New("object has no question property")
	}
	embedding, err := b.embed(ctx, b.searchableText(object.Class, question, answer))
	if err != nil {
		return b.classify(err)
	}
	if _, err := b.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (question, answer, embedding)
		VALUES ($1, $2, $3)
	`, table), question, answer, pgvector.NewVector(embedding)); err != nil {
		return b.classify(err)
	}
	return nil
}

func (b *Backend) searchableText(class, question, answer string) string {
	definition, ok := b.classDefinition(context.Background(), class)
	if ok {
		for _, property := range definition.Properties {
			if property.Name == "answer" && property.IndexSearchable != nil && !*property.IndexSearchable {
				return question
			}
		}
	}
	if answer == "" {
		return question
	}
	return question + "\n" + answer
}

func (b *Backend) classDefinition(ctx context.Context, class string) (schema.Class, bool) {
	b.mu.RLock()
	definition, ok := b.classes[class]
	b.mu.RUnlock()
	if ok {
		return definition, true
	}
	var payload []byte
	if err := b.pool.QueryRow(ctx, `SELECT definition FROM faq_classes WHERE name = $1`, class).Scan(&payload); err != nil {
		return schema.Class{}, false
	}
	if err := json.Unmarshal(payload, &definition); err != nil {
		return schema.Class{}, false
	}
	b.mu.Lock()
	b.classes[class] = definition
	b.mu.Unlock()
	return definition, true
}

func (b *Backend) embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := b.llm.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: b.cfg.EmbeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response empty")
	}
	return resp.Data[0].Embedding, nil
}

func (b *Backend) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", resolution.ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", resolution.ErrBackendUnavailable, err)
}

var _ resolution.SearchBackend = (*Backend)(nil)
var _ schema.Manager = (*Backend)(nil)
