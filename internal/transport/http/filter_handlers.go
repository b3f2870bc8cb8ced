package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
)

var (
	errUnknownDimension   = errors.New("unknown filter dimension")
	errInvalidFilterValue = errors.New("invalid filter value")
)

type filtersView struct {
	State         domain.FilterState `json:"state"`
	ActiveFilters int                `json:"activeFilters"`
	Query         string             `json:"query"`
}

// filtersPatch changes only the dimensions that are present.
type filtersPatch struct {
	SearchQuery          *string              `json:"searchQuery"`
	SelectedDifficulties *[]domain.Difficulty `json:"selectedDifficulties" validate:"omitempty,dive,oneof=easy medium hard"`
	SelectedCategories   *[]domain.Category   `json:"selectedCategories" validate:"omitempty,dive,category"`
	SelectedTags         *[]string            `json:"selectedTags" validate:"omitempty,dive,required,excludes=0x2C"`
	SelectedStatus       *string              `json:"selectedStatus" validate:"omitempty,oneof=all not-seen seen mastered"`
	ShowOnlyFavorites    *bool                `json:"showOnlyFavorites"`
}

func (a *API) filtersView() filtersView {
	f := a.study.Filters
	return filtersView{
		State:         f.State(),
		ActiveFilters: f.ActiveFiltersCount(),
		Query:         f.Query().Encode(),
	}
}

func (a *API) GetFilters(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.filtersView())
}

func (a *API) ResetFilters(w http.ResponseWriter, r *http.Request) {
	a.study.Filters.Reset()
	writeOK(w, "filters reset", a.filtersView())
}

func (a *API) PatchFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersPatch
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	f := a.study.Filters
	if req.SearchQuery != nil {
		f.SetSearchQuery(*req.SearchQuery)
	}
	if req.SelectedDifficulties != nil {
		f.SetDifficulties(*req.SelectedDifficulties)
	}
	if req.SelectedCategories != nil {
		f.SetCategories(*req.SelectedCategories)
	}
	if req.SelectedTags != nil {
		f.SetTags(*req.SelectedTags)
	}
	if req.SelectedStatus != nil {
		f.SetStatus(domain.FilterStatus(*req.SelectedStatus))
	}
	if req.ShowOnlyFavorites != nil {
		f.SetShowOnlyFavorites(*req.ShowOnlyFavorites)
	}
	writeOK(w, "", a.filtersView())
}

// ToggleFilter flips one value of a list dimension. For favorites the value is the new boolean.
func (a *API) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")
	f := a.study.Filters

	switch chi.URLParam(r, "dimension") {
	case app.ParamDifficulty:
		d := domain.Difficulty(value)
		if !d.Valid() {
			a.fail(w, fmt.Errorf("%w: difficulty %q", errInvalidFilterValue, value))
			return
		}
		f.ToggleDifficulty(d)
	case app.ParamCategories:
		c := domain.Category(value)
		if !c.Valid() {
			a.fail(w, fmt.Errorf("%w: category %q", errInvalidFilterValue, value))
			return
		}
		f.ToggleCategory(c)
	case app.ParamTags:
		if !app.ValidTag(value) {
			a.fail(w, fmt.Errorf("%w: tag %q", errInvalidFilterValue, value))
			return
		}
		f.ToggleTag(value)
	case app.ParamFavorites:
		only, err := strconv.ParseBool(value)
		if err != nil {
			a.fail(w, fmt.Errorf("%w: favorites %q", errInvalidFilterValue, value))
			return
		}
		f.SetShowOnlyFavorites(only)
	default:
		a.fail(w, errUnknownDimension)
		return
	}
	writeOK(w, "", a.filtersView())
}
