package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"interview-prep-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	Locale string          `bun:"locale,pk"`
	ID     string          `bun:"id,pk"`
	Data   json.RawMessage `bun:"data,type:jsonb"`
}

type homePageRow struct {
	bun.BaseModel `bun:"table:home_pages"`

	Locale string          `bun:"locale,pk"`
	Data   json.RawMessage `bun:"data,type:jsonb"`
}

// Seeder upserts loaded content into the questions and home_pages tables.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedQuestions upserts questions of one locale and returns the number of rows written.
func (s *Seeder) SeedQuestions(ctx context.Context, locale domain.Locale, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		q.Locale = locale
		data, err := json.Marshal(q)
		if err != nil {
			return 0, fmt.Errorf("marshal question %s: %w", q.ID, err)
		}
		rows = append(rows, questionRow{Locale: string(locale), ID: string(q.ID), Data: data})
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (locale, id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed questions %s: %w", locale, err)
	}
	return len(rows), nil
}

// SeedHome upserts the landing page of one locale.
func (s *Seeder) SeedHome(ctx context.Context, home domain.HomeContent) error {
	data, err := json.Marshal(home)
	if err != nil {
		return fmt.Errorf("marshal home: %w", err)
	}
	row := homePageRow{Locale: string(home.Locale), Data: data}
	_, err = s.db.NewInsert().
		Model(&row).
		On("CONFLICT (locale) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed home %s: %w", home.Locale, err)
	}
	return nil
}
