package app

import (
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"

	"interview-prep-service/internal/domain"
)

// ProgressReader exposes the progress status lookup used by the status filter.
type ProgressReader interface {
	Get(id string) domain.ProgressEntry
}

// FavoriteReader exposes the favorite lookup used by the favorites filter.
type FavoriteReader interface {
	IsFavorite(id string) bool
}

// MatchesSearch reports whether query appears in the title or in any tag, ignoring case and accents.
func MatchesSearch(q domain.Question, query string) bool {
	if query == "" {
		return true
	}
	needle := normalizeText(query)
	if containsNormalized(q.Meta.Title, needle) {
		return true
	}
	for _, tag := range q.Meta.Tags {
		if containsNormalized(tag, needle) {
			return true
		}
	}
	return false
}

func containsNormalized(haystack, needle string) bool {
	return len(haystack) > 0 && strings.Contains(normalizeText(haystack), needle)
}

// FilterQuestions keeps the questions that satisfy every active dimension, preserving order.
func FilterQuestions(questions []domain.Question, state domain.FilterState, progress ProgressReader, favorites FavoriteReader) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if matches(q, state, progress, favorites) {
			out = append(out, q)
		}
	}
	return out
}

func matches(q domain.Question, state domain.FilterState, progress ProgressReader, favorites FavoriteReader) bool {
	if !MatchesSearch(q, state.SearchQuery) {
		return false
	}
	if len(state.SelectedDifficulties) > 0 && !slices.Contains(state.SelectedDifficulties, q.Meta.Difficulty) {
		return false
	}
	if len(state.SelectedCategories) > 0 && !slices.Contains(state.SelectedCategories, q.Meta.Category) {
		return false
	}
	if len(state.SelectedTags) > 0 && !slices.ContainsFunc(state.SelectedTags, func(tag string) bool {
		return slices.Contains(q.Meta.Tags, tag)
	}) {
		return false
	}
	id := string(q.ID)
	if state.SelectedStatus != "" && state.SelectedStatus != domain.FilterAll {
		if progress == nil || string(progress.Get(id).Status) != string(state.SelectedStatus) {
			return false
		}
	}
	if state.ShowOnlyFavorites && (favorites == nil || !favorites.IsFavorite(id)) {
		return false
	}
	return true
}

// ActiveFiltersCount counts dimensions that differ from their default, at most one each.
func ActiveFiltersCount(state domain.FilterState) int {
	count := 0
	if state.SearchQuery != "" {
		count++
	}
	if len(state.SelectedDifficulties) > 0 {
		count++
	}
	if len(state.SelectedCategories) > 0 {
		count++
	}
	if len(state.SelectedTags) > 0 {
		count++
	}
	if state.SelectedStatus != "" && state.SelectedStatus != domain.FilterAll {
		count++
	}
	if state.ShowOnlyFavorites {
		count++
	}
	return count
}

// AllUniqueTags returns every tag used by questions, sorted.
func AllUniqueTags(questions []domain.Question) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, q := range questions {
		for _, tag := range q.Meta.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// Filters is the stateful filter engine. Every mutation hands the canonical query to replace,
// which keeps the shareable URL in step with the state.
type Filters struct {
	progress  ProgressReader
	favorites FavoriteReader
	replace   func(url.Values)
	registry  *Registry

	mu    sync.RWMutex
	state domain.FilterState
}

// FiltersOption customizes a Filters engine.
type FiltersOption func(*Filters)

// WithURLReplacer registers the callback that receives the query after each mutation.
func WithURLReplacer(replace func(url.Values)) FiltersOption {
	return func(f *Filters) { f.replace = replace }
}

// WithChangeRegistry publishes filter mutations on the registry's hub.
func WithChangeRegistry(r *Registry) FiltersOption {
	return func(f *Filters) { f.registry = r }
}

// NewFilters hydrates the state from initial URL query parameters.
func NewFilters(progress ProgressReader, favorites FavoriteReader, initial url.Values, opts ...FiltersOption) *Filters {
	f := &Filters{
		progress:  progress,
		favorites: favorites,
		state:     ParseFilterQuery(initial),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a copy of the current filter state.
func (f *Filters) State() domain.FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneFilterState(f.state)
}

// Query returns the current state encoded as URL query parameters.
func (f *Filters) Query() url.Values {
	return EncodeFilterQuery(f.State())
}

// Filter applies the current state to questions.
func (f *Filters) Filter(questions []domain.Question) []domain.Question {
	return FilterQuestions(questions, f.State(), f.progress, f.favorites)
}

func (f *Filters) ActiveFiltersCount() int {
	return ActiveFiltersCount(f.State())
}

func (f *Filters) SetSearchQuery(query string) {
	f.mutate("search", func(s *domain.FilterState) { s.SearchQuery = query })
}

func (f *Filters) SetDifficulties(difficulties []domain.Difficulty) {
	f.mutate("difficulty", func(s *domain.FilterState) {
		s.SelectedDifficulties = validDifficulties(difficulties)
	})
}

// ToggleDifficulty adds the difficulty when absent and removes it when present.
func (f *Filters) ToggleDifficulty(d domain.Difficulty) {
	if !d.Valid() {
		return
	}
	f.mutate("difficulty", func(s *domain.FilterState) {
		s.SelectedDifficulties = toggle(s.SelectedDifficulties, d)
	})
}

func (f *Filters) SetCategories(categories []domain.Category) {
	f.mutate("categories", func(s *domain.FilterState) {
		s.SelectedCategories = validCategories(categories)
	})
}

func (f *Filters) ToggleCategory(c domain.Category) {
	if !c.Valid() {
		return
	}
	f.mutate("categories", func(s *domain.FilterState) {
		s.SelectedCategories = toggle(s.SelectedCategories, c)
	})
}

// SetTags drops tags that contain a comma.
func (f *Filters) SetTags(tags []string) {
	f.mutate("tags", func(s *domain.FilterState) { s.SelectedTags = cleanTags(tags) })
}

func (f *Filters) ToggleTag(tag string) {
	if !ValidTag(tag) {
		return
	}
	f.mutate("tags", func(s *domain.FilterState) { s.SelectedTags = toggle(s.SelectedTags, tag) })
}

// SetStatus ignores unknown statuses.
func (f *Filters) SetStatus(status domain.FilterStatus) {
	if !status.Valid() {
		return
	}
	f.mutate("status", func(s *domain.FilterState) { s.SelectedStatus = status })
}

func (f *Filters) SetShowOnlyFavorites(only bool) {
	f.mutate("favorites", func(s *domain.FilterState) { s.ShowOnlyFavorites = only })
}

// Reset restores every dimension to its default in one mutation.
func (f *Filters) Reset() {
	f.mutate("reset", func(s *domain.FilterState) { *s = domain.DefaultFilterState() })
}

func (f *Filters) mutate(action string, fn func(*domain.FilterState)) {
	f.mu.Lock()
	fn(&f.state)
	query := EncodeFilterQuery(f.state)
	f.mu.Unlock()

	if f.replace != nil {
		f.replace(query)
	}
	if f.registry != nil {
		f.registry.publish(domain.StoreFilters, "", action)
	}
}

func toggle[T comparable](values []T, v T) []T {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}

func cloneFilterState(s domain.FilterState) domain.FilterState {
	s.SelectedDifficulties = append([]domain.Difficulty{}, s.SelectedDifficulties...)
	s.SelectedCategories = append([]domain.Category{}, s.SelectedCategories...)
	s.SelectedTags = append([]string{}, s.SelectedTags...)
	return s
}
