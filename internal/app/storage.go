package app

import (
	"context"

	"interview-prep-service/internal/domain"
)

// Storage is the durable local store behind every tracker: string values under string keys.
// A nil Storage means no durable store is reachable and state stays memory-only.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// QuestionRepository serves the read-only content collections (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context, locale domain.Locale) ([]domain.Question, error)
	Home(ctx context.Context, locale domain.Locale) (domain.HomeContent, error)
}

// QuestionLoader fetches content from a backing store (markdown tree, Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, locale domain.Locale) ([]domain.Question, error)
	LoadHome(ctx context.Context, locale domain.Locale) (domain.HomeContent, error)
}
