package question

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

// Service exposes the client-facing question operations.
type Service interface {
	Submit(ctx context.Context, text, askedBy string) (Question, error)
	Recent(ctx context.Context) ([]Question, error)
	Rate(ctx context.Context, id uuid.UUID, rating int) error
	// Watch streams question change events for live rendering.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Config holds runtime knobs for the question domain.
type Config struct {
	RecentLimit   int
	MaxTextLength int
}

type service struct {
	cfg    Config
	repo   Repository
	bus    Bus
	logger *slog.Logger
}

// NewService wires up the question domain.
func NewService(cfg Config, repo Repository, bus Bus, logger *slog.Logger) Service {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 25
	}
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = 1000
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		bus:    bus,
		logger: logger.With("component", "question.service"),
	}
}

func (s *service) Submit(ctx context.Context, text, askedBy string) (Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Question{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	if len(text) > s.cfg.MaxTextLength {
		return Question{}, apperrors.Wrap("invalid_input", "question is too long", nil)
	}
	if strings.TrimSpace(askedBy) == "" {
		askedBy = "anonymous"
	}

	q := Question{
		ID:        uuid.New(),
		Text:      text,
		AskedBy:   askedBy,
		CreatedAt: util.NowUTC(),
	}
	if err := s.repo.Insert(ctx, q); err != nil {
		return Question{}, apperrors.Wrap("question_error", "failed to store question", err)
	}

	if err := s.bus.Publish(ctx, Event{Kind: EventCreated, Question: q}); err != nil {
		// The record exists but nothing will answer it; surface the
		// failure so the client does not wait forever.
		return Question{}, apperrors.Wrap("question_error", "failed to dispatch question", err)
	}

	s.logger.Info("question submitted", "id", q.ID, "askedBy", askedBy)
	return q, nil
}

func (s *service) Recent(ctx context.Context) ([]Question, error) {
	records, err := s.repo.Recent(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, apperrors.Wrap("question_error", "failed to load questions", err)
	}
	return records, nil
}

func (s *service) Rate(ctx context.Context, id uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.Wrap("invalid_input", "rating must be between 1 and 5", nil)
	}
	if _, found, err := s.repo.Get(ctx, id); err != nil {
		return apperrors.Wrap("question_error", "failed to load question", err)
	} else if !found {
		return apperrors.Wrap("not_found", "question does not exist", nil)
	}
	if err := s.repo.SetRating(ctx, id, rating); err != nil {
		return apperrors.Wrap("question_error", "failed to store rating", err)
	}
	return nil
}

func (s *service) Watch(ctx context.Context) (<-chan Event, error) {
	ch, err := s.bus.Subscribe(ctx)
	if err != nil {
		return nil, apperrors.Wrap("question_error", "failed to subscribe to updates", err)
	}
	return ch, nil
}
