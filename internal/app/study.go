package app

import (
	"context"
	"net/url"

	"interview-prep-service/internal/domain"
)

// Study is the application context: one tracker of each kind over a shared registry,
// plus the process-wide filter engine and the content collaborator.
type Study struct {
	Registry  *Registry
	Progress  *Progress
	Favorites *Favorites
	Reveals   *Reveals
	Quiz      *Quiz
	Filters   *Filters

	questions QuestionRepository
}

// NewStudy builds the trackers over registry. opts configure the shared filter engine, for
// example WithURLReplacer to mirror filter changes into a browser URL.
func NewStudy(registry *Registry, questions QuestionRepository, opts ...FiltersOption) *Study {
	progress := NewProgress(registry)
	favorites := NewFavorites(registry)
	return &Study{
		Registry:  registry,
		Progress:  progress,
		Favorites: favorites,
		Reveals:   NewReveals(registry),
		Quiz:      NewQuiz(registry),
		Filters:   NewFilters(progress, favorites, nil, append([]FiltersOption{WithChangeRegistry(registry)}, opts...)...),
		questions: questions,
	}
}

// SearchResult is one filtered view over a locale's questions.
type SearchResult struct {
	Questions     []domain.Question  `json:"questions"`
	Total         int                `json:"total"`
	ActiveFilters int                `json:"activeFilters"`
	Filters       domain.FilterState `json:"filters"`
	Query         string             `json:"query"`
}

// Overview aggregates progress and reveal statistics against a locale's question count.
type Overview struct {
	Locale             domain.Locale        `json:"locale"`
	TotalQuestions     int                  `json:"totalQuestions"`
	Progress           domain.ProgressStats `json:"progress"`
	NotSeen            int                  `json:"notSeen"`
	ProgressPercentage int                  `json:"progressPercentage"`
	MasteryPercentage  int                  `json:"masteryPercentage"`
	Favorites          int                  `json:"favorites"`
	Reveals            domain.RevealStats   `json:"reveals"`
}

// Questions returns every question of locale in display order.
func (s *Study) Questions(ctx context.Context, locale domain.Locale) ([]domain.Question, error) {
	return s.questions.Questions(ctx, locale)
}

// Question looks a question up by id, falling back to its slug.
func (s *Study) Question(ctx context.Context, locale domain.Locale, idOrSlug string) (domain.Question, error) {
	questions, err := s.questions.Questions(ctx, locale)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if string(q.ID) == idOrSlug {
			return q, nil
		}
	}
	for _, q := range questions {
		if q.Meta.Slug == idOrSlug {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *Study) Home(ctx context.Context, locale domain.Locale) (domain.HomeContent, error) {
	return s.questions.Home(ctx, locale)
}

// Search filters a locale with a filter state hydrated from URL query parameters.
func (s *Study) Search(ctx context.Context, locale domain.Locale, query url.Values) (SearchResult, error) {
	return s.search(ctx, locale, NewFilters(s.Progress, s.Favorites, query))
}

// Browse filters a locale with the process-wide filter engine.
func (s *Study) Browse(ctx context.Context, locale domain.Locale) (SearchResult, error) {
	return s.search(ctx, locale, s.Filters)
}

func (s *Study) search(ctx context.Context, locale domain.Locale, filters *Filters) (SearchResult, error) {
	questions, err := s.questions.Questions(ctx, locale)
	if err != nil {
		return SearchResult{}, err
	}
	matched := filters.Filter(questions)
	return SearchResult{
		Questions:     matched,
		Total:         len(matched),
		ActiveFilters: filters.ActiveFiltersCount(),
		Filters:       filters.State(),
		Query:         filters.Query().Encode(),
	}, nil
}

// StartQuiz starts a quiz over ids, or over the currently browsed questions of locale when ids is empty.
func (s *Study) StartQuiz(ctx context.Context, locale domain.Locale, ids []string) (domain.QuizSession, error) {
	if len(ids) == 0 {
		result, err := s.Browse(ctx, locale)
		if err != nil {
			return domain.QuizSession{}, err
		}
		for _, q := range result.Questions {
			ids = append(ids, string(q.ID))
		}
	}
	return s.Quiz.Start(ids), nil
}

// Overview computes statistics for locale.
func (s *Study) Overview(ctx context.Context, locale domain.Locale) (Overview, error) {
	questions, err := s.questions.Questions(ctx, locale)
	if err != nil {
		return Overview{}, err
	}
	total := len(questions)
	stats := s.Progress.Stats()
	notSeen := total - stats.Seen - stats.Mastered
	if notSeen < 0 {
		notSeen = 0
	}
	return Overview{
		Locale:             locale,
		TotalQuestions:     total,
		Progress:           stats,
		NotSeen:            notSeen,
		ProgressPercentage: s.Progress.ProgressPercentage(total),
		MasteryPercentage:  s.Progress.MasteryPercentage(total),
		Favorites:          s.Favorites.Count(),
		Reveals:            s.Reveals.GlobalStats(),
	}, nil
}
