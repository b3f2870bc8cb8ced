package app

import (
	"net/url"
	"slices"
	"strings"

	"interview-prep-service/internal/domain"
)

// URL query parameter names of the filter dimensions.
const (
	ParamSearch     = "search"
	ParamDifficulty = "difficulty"
	ParamCategories = "categories"
	ParamTags       = "tags"
	ParamStatus     = "status"
	ParamFavorites  = "favorites"
)

// EncodeFilterQuery writes only non-default dimensions; lists are comma-joined.
func EncodeFilterQuery(state domain.FilterState) url.Values {
	q := url.Values{}
	if state.SearchQuery != "" {
		q.Set(ParamSearch, state.SearchQuery)
	}
	if len(state.SelectedDifficulties) > 0 {
		parts := make([]string, 0, len(state.SelectedDifficulties))
		for _, d := range state.SelectedDifficulties {
			parts = append(parts, string(d))
		}
		q.Set(ParamDifficulty, strings.Join(parts, ","))
	}
	if len(state.SelectedCategories) > 0 {
		parts := make([]string, 0, len(state.SelectedCategories))
		for _, c := range state.SelectedCategories {
			parts = append(parts, string(c))
		}
		q.Set(ParamCategories, strings.Join(parts, ","))
	}
	if len(state.SelectedTags) > 0 {
		q.Set(ParamTags, strings.Join(state.SelectedTags, ","))
	}
	if state.SelectedStatus != "" && state.SelectedStatus != domain.FilterAll {
		q.Set(ParamStatus, string(state.SelectedStatus))
	}
	if state.ShowOnlyFavorites {
		q.Set(ParamFavorites, "true")
	}
	return q
}

// ParseFilterQuery is the inverse of EncodeFilterQuery. Invalid values are dropped and the
// dimension falls back to its default.
func ParseFilterQuery(values url.Values) domain.FilterState {
	state := domain.DefaultFilterState()
	if values == nil {
		return state
	}
	state.SearchQuery = values.Get(ParamSearch)

	var difficulties []domain.Difficulty
	for _, raw := range splitQueryList(values[ParamDifficulty]) {
		difficulties = append(difficulties, domain.Difficulty(raw))
	}
	state.SelectedDifficulties = validDifficulties(difficulties)

	var categories []domain.Category
	for _, raw := range splitQueryList(values[ParamCategories]) {
		categories = append(categories, domain.Category(raw))
	}
	state.SelectedCategories = validCategories(categories)

	state.SelectedTags = cleanTags(splitQueryList(values[ParamTags]))

	if status := domain.FilterStatus(values.Get(ParamStatus)); status.Valid() {
		state.SelectedStatus = status
	}
	state.ShowOnlyFavorites = values.Get(ParamFavorites) == "true"
	return state
}

func splitQueryList(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validDifficulties(in []domain.Difficulty) []domain.Difficulty {
	out := []domain.Difficulty{}
	for _, d := range in {
		if d.Valid() && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

func validCategories(in []domain.Category) []domain.Category {
	out := []domain.Category{}
	for _, c := range in {
		if c.Valid() && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// ValidTag reports whether tag can be carried in the comma-joined tags parameter.
func ValidTag(tag string) bool {
	return tag != "" && !strings.Contains(tag, ",")
}

func cleanTags(in []string) []string {
	out := []string{}
	for _, tag := range in {
		if ValidTag(tag) && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
