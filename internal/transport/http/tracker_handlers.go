package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"interview-prep-service/internal/domain"
)

type progressItem struct {
	ID string `json:"id"`
	domain.ProgressEntry
}

type progressList struct {
	Entries []progressItem       `json:"entries"`
	Stats   domain.ProgressStats `json:"stats"`
}

type revealRequest struct {
	TimeToReveal int64 `json:"timeToReveal" validate:"gte=0"`
}

func (a *API) ListProgress(w http.ResponseWriter, r *http.Request) {
	entries := a.study.Progress.Entries()
	items := make([]progressItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, progressItem{ID: e.ID, ProgressEntry: e.Value})
	}
	writeOK(w, "", progressList{Entries: items, Stats: a.study.Progress.Stats()})
}

func (a *API) GetProgress(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.study.Progress.Get(chi.URLParam(r, "id")))
}

// MarkProgress applies one of the seen, mastered or not-mastered transitions.
func (a *API) MarkProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var entry domain.ProgressEntry
	switch chi.URLParam(r, "status") {
	case "seen":
		entry = a.study.Progress.MarkAsSeen(id)
	case "mastered":
		entry = a.study.Progress.MarkAsMastered(id)
	case "not-mastered":
		entry = a.study.Progress.MarkAsNotMastered(id)
	default:
		http.NotFound(w, r)
		return
	}
	writeOK(w, "progress updated", entry)
}

func (a *API) ResetProgress(w http.ResponseWriter, r *http.Request) {
	a.study.Progress.Reset(chi.URLParam(r, "id"))
	writeOK(w, "progress reset", nil)
}

func (a *API) ResetAllProgress(w http.ResponseWriter, r *http.Request) {
	a.study.Progress.ResetAll()
	writeOK(w, "progress reset", nil)
}

func (a *API) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.study.Favorites.IDs())
}

func (a *API) AddFavorite(w http.ResponseWriter, r *http.Request) {
	a.study.Favorites.Add(chi.URLParam(r, "id"))
	writeOK(w, "favorite added", map[string]bool{"favorite": true})
}

func (a *API) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	a.study.Favorites.Remove(chi.URLParam(r, "id"))
	writeOK(w, "favorite removed", map[string]bool{"favorite": false})
}

func (a *API) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favorite := a.study.Favorites.Toggle(chi.URLParam(r, "id"))
	writeOK(w, "", map[string]bool{"favorite": favorite})
}

func (a *API) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	a.study.Favorites.Clear()
	writeOK(w, "favorites cleared", nil)
}

func (a *API) RevealStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.study.Reveals.GlobalStats())
}

func (a *API) GetReveal(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.study.Reveals.Get(chi.URLParam(r, "id")))
}

// Reveal records a reveal; timeToReveal is in milliseconds and 0 means not measured.
func (a *API) Reveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	entry := a.study.Reveals.MarkRevealed(chi.URLParam(r, "id"), time.Duration(req.TimeToReveal)*time.Millisecond)
	writeOK(w, "answer revealed", entry)
}

func (a *API) Hide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.study.Reveals.MarkHidden(id)
	writeOK(w, "answer hidden", a.study.Reveals.Get(id))
}

func (a *API) ResetReveal(w http.ResponseWriter, r *http.Request) {
	a.study.Reveals.Reset(chi.URLParam(r, "id"))
	writeOK(w, "reveal reset", nil)
}
