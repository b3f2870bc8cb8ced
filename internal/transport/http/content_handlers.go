package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/domain"
)

type questionView struct {
	Question domain.Question      `json:"question"`
	Progress domain.ProgressEntry `json:"progress"`
	Favorite bool                 `json:"favorite"`
	Reveal   domain.RevealEntry   `json:"reveal"`
}

// ListQuestions filters a locale with the filter dimensions found in the query string.
func (a *API) ListQuestions(w http.ResponseWriter, r *http.Request) {
	locale, err := a.locale(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	result, err := a.study.Search(r.Context(), locale, r.URL.Query())
	if err != nil {
		a.fail(w, err)
		return
	}
	writeOK(w, "", result)
}

// GetQuestion resolves an id or slug and attaches the tracker state of the question.
func (a *API) GetQuestion(w http.ResponseWriter, r *http.Request) {
	locale, err := a.locale(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	q, err := a.study.Question(r.Context(), locale, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	id := string(q.ID)
	writeOK(w, "", questionView{
		Question: q,
		Progress: a.study.Progress.Get(id),
		Favorite: a.study.Favorites.IsFavorite(id),
		Reveal:   a.study.Reveals.Get(id),
	})
}

func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	locale, err := a.locale(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	questions, err := a.study.Questions(r.Context(), locale)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeOK(w, "", app.AllUniqueTags(questions))
}

func (a *API) GetHome(w http.ResponseWriter, r *http.Request) {
	locale, err := a.locale(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	home, err := a.study.Home(r.Context(), locale)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeOK(w, "", home)
}

func (a *API) GetOverview(w http.ResponseWriter, r *http.Request) {
	locale, err := a.locale(r)
	if err != nil {
		a.fail(w, err)
		return
	}
	overview, err := a.study.Overview(r.Context(), locale)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeOK(w, "", overview)
}
