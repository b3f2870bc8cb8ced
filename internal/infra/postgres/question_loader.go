package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"interview-prep-service/internal/domain"
)

// QuestionLoader loads question and home page JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, locale domain.Locale) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data FROM questions WHERE locale=$1`, string(locale))
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question %s: %w", id, err)
		}
		q.ID = domain.QuestionID(id)
		q.Locale = locale
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	domain.SortQuestions(questions)
	return questions, nil
}

func (l *QuestionLoader) LoadHome(ctx context.Context, locale domain.Locale) (domain.HomeContent, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM home_pages WHERE locale=$1`, string(locale)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HomeContent{}, domain.ErrHomeNotFound
	}
	if err != nil {
		return domain.HomeContent{}, fmt.Errorf("load home: %w", err)
	}
	var home domain.HomeContent
	if err := json.Unmarshal(raw, &home); err != nil {
		return domain.HomeContent{}, fmt.Errorf("unmarshal home: %w", err)
	}
	home.Locale = locale
	return home, nil
}
