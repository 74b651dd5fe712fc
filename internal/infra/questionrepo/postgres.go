package questionrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
)

// PostgresRepository implements question.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Init creates the questions table when absent.
func (r *PostgresRepository) Init(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id uuid PRIMARY KEY,
			question_text text NOT NULL,
			asked_by text NOT NULL,
			created_at timestamptz NOT NULL,
			responded_at timestamptz,
			response text,
			generated boolean NOT NULL DEFAULT false,
			rating int
		)
	`)
	return err
}

// Insert stores a new question record.
func (r *PostgresRepository) Insert(ctx context.Context, q question.Question) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO questions (id, question_text, asked_by, created_at)
		VALUES ($1, $2, $3, $4)
	`, q.ID, q.Text, q.AskedBy, q.CreatedAt)
	return err
}

// Get fetches one record by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (question.Question, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, question_text, asked_by, created_at, responded_at, response, generated, rating
		FROM questions
		WHERE id = $1
	`, id)
	record, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return question.Question{}, false, nil
	}
	if err != nil {
		return question.Question{}, false, err
	}
	return record, true, nil
}

// Recent returns the newest records first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_text, asked_by, created_at, responded_at, response, generated, rating
		FROM questions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []question.Question
	for rows.Next() {
		record, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SetResponse writes the resolved answer. The WHERE clause makes the claim
// atomic: only the first resolution run for a question gets a row back.
func (r *PostgresRepository) SetResponse(ctx context.Context, id uuid.UUID, response string, generated bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE questions
		SET response = $2, generated = $3, responded_at = now()
		WHERE id = $1 AND response IS NULL
	`, id, response, generated)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetRating stores the user's rating for an answered question.
func (r *PostgresRepository) SetRating(ctx context.Context, id uuid.UUID, rating int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE questions
		SET rating = $2
		WHERE id = $1
	`, id, rating)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (question.Question, error) {
	var (
		record      question.Question
		respondedAt sql.NullTime
		response    sql.NullString
		rating      sql.NullInt32
	)
	if err := row.Scan(&record.ID, &record.Text, &record.AskedBy, &record.CreatedAt,
		&respondedAt, &response, &record.Generated, &rating); err != nil {
		return question.Question{}, err
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		record.RespondedAt = &t
	}
	if response.Valid {
		s := response.String
		record.Response = &s
	}
	if rating.Valid {
		v := int(rating.Int32)
		record.Rating = &v
	}
	return record, nil
}

var _ question.Repository = (*PostgresRepository)(nil)
