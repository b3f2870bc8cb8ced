package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"interview-prep-service/internal/domain"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, method, url string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestListQuestionsWithFilters(t *testing.T) {
	server, study := newTestServer(t)
	study.Progress.MarkAsSeen("3")

	status, env := call(t, http.MethodGet, server.URL+"/api/fr/questions?difficulty=easy&status=not-seen&bogus=1", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("unexpected status %d %+v", status, env)
	}
	var result struct {
		Questions     []domain.Question `json:"questions"`
		Total         int               `json:"total"`
		ActiveFilters int               `json:"activeFilters"`
		Query         string            `json:"query"`
	}
	decodeData(t, env, &result)
	if result.Total != 1 || result.Questions[0].ID != "2" {
		t.Fatalf("unexpected questions %+v", result.Questions)
	}
	if result.ActiveFilters != 2 || result.Query != "difficulty=easy&status=not-seen" {
		t.Fatalf("unexpected filter summary %+v", result)
	}
}

func TestQuestionLookupAndErrors(t *testing.T) {
	server, study := newTestServer(t)
	study.Favorites.Add("1")

	status, env := call(t, http.MethodGet, server.URL+"/api/fr/questions/closure", nil)
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	var view struct {
		Question domain.Question      `json:"question"`
		Favorite bool                 `json:"favorite"`
		Progress domain.ProgressEntry `json:"progress"`
	}
	decodeData(t, env, &view)
	if view.Question.ID != "1" || !view.Favorite || view.Progress.Status != domain.StatusNotSeen {
		t.Fatalf("unexpected view %+v", view)
	}

	if status, env := call(t, http.MethodGet, server.URL+"/api/fr/questions/404", nil); status != http.StatusNotFound || env.Success {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := call(t, http.MethodGet, server.URL+"/api/de/questions", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported locale, got %d", status)
	}
	if status, _ := call(t, http.MethodGet, server.URL+"/api/en/home", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing home, got %d", status)
	}
}

func TestTagsHomeAndOverview(t *testing.T) {
	server, study := newTestServer(t)
	study.Progress.MarkAsMastered("1")

	_, env := call(t, http.MethodGet, server.URL+"/api/fr/tags", nil)
	var tags []string
	decodeData(t, env, &tags)
	if len(tags) != 2 || tags[0] != "layout" || tags[1] != "scope" {
		t.Fatalf("unexpected tags %v", tags)
	}

	_, env = call(t, http.MethodGet, server.URL+"/api/fr/home", nil)
	var home domain.HomeContent
	decodeData(t, env, &home)
	if home.Title != "Questions d'entretien" {
		t.Fatalf("unexpected home %+v", home)
	}

	_, env = call(t, http.MethodGet, server.URL+"/api/fr/overview", nil)
	var overview struct {
		TotalQuestions    int `json:"totalQuestions"`
		NotSeen           int `json:"notSeen"`
		MasteryPercentage int `json:"masteryPercentage"`
	}
	decodeData(t, env, &overview)
	if overview.TotalQuestions != 3 || overview.NotSeen != 2 || overview.MasteryPercentage != 33 {
		t.Fatalf("unexpected overview %+v", overview)
	}
}

func TestProgressFavoritesAndReveals(t *testing.T) {
	server, study := newTestServer(t)

	status, env := call(t, http.MethodPost, server.URL+"/api/progress/2/seen", nil)
	var entry domain.ProgressEntry
	decodeData(t, env, &entry)
	if status != http.StatusOK || entry.Status != domain.StatusSeen || entry.ViewCount != 1 {
		t.Fatalf("unexpected progress %d %+v", status, entry)
	}
	call(t, http.MethodPost, server.URL+"/api/progress/2/mastered", nil)
	if got := study.Progress.Get("2").Status; got != domain.StatusMastered {
		t.Fatalf("expected mastered, got %s", got)
	}
	if status, _ := call(t, http.MethodDelete, server.URL+"/api/progress", nil); status != http.StatusOK {
		t.Fatalf("reset all failed: %d", status)
	}
	if study.Progress.Stats().Total != 0 {
		t.Fatalf("expected progress cleared")
	}

	call(t, http.MethodPut, server.URL+"/api/favorites/3", nil)
	call(t, http.MethodPut, server.URL+"/api/favorites/1", nil)
	_, env = call(t, http.MethodGet, server.URL+"/api/favorites", nil)
	var ids []string
	decodeData(t, env, &ids)
	if len(ids) != 2 || ids[0] != "3" || ids[1] != "1" {
		t.Fatalf("unexpected favorites %v", ids)
	}

	status, env = call(t, http.MethodPost, server.URL+"/api/reveals/1/reveal", map[string]any{"timeToReveal": 2500})
	var reveal domain.RevealEntry
	decodeData(t, env, &reveal)
	if status != http.StatusOK || !reveal.Revealed || reveal.TimeToReveal == nil || *reveal.TimeToReveal != 2500 {
		t.Fatalf("unexpected reveal %d %+v", status, reveal)
	}
	if status, _ := call(t, http.MethodPost, server.URL+"/api/reveals/1/reveal", map[string]any{"timeToReveal": -1}); status != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", status)
	}
	_, env = call(t, http.MethodPost, server.URL+"/api/reveals/1/hide", nil)
	decodeData(t, env, &reveal)
	if reveal.Revealed || reveal.RevealCount != 1 {
		t.Fatalf("unexpected hidden reveal %+v", reveal)
	}
	_, env = call(t, http.MethodGet, server.URL+"/api/reveals/stats", nil)
	var stats domain.RevealStats
	decodeData(t, env, &stats)
	if stats.TotalReveals != 1 || stats.AvgTimeToReveal != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestQuizFlow(t *testing.T) {
	server, _ := newTestServer(t)

	if status, _ := call(t, http.MethodPost, server.URL+"/api/quiz/answer", map[string]any{"questionId": "1", "correct": true}); status != http.StatusNotFound {
		t.Fatalf("expected 404 without a quiz, got %d", status)
	}

	call(t, http.MethodPatch, server.URL+"/api/filters", map[string]any{"selectedDifficulties": []string{"easy"}})
	status, env := call(t, http.MethodPost, server.URL+"/api/quiz/start", map[string]any{"locale": "fr"})
	if status != http.StatusOK {
		t.Fatalf("start failed: %d %s", status, env.Error)
	}
	var state struct {
		Mode    domain.QuizMode     `json:"mode"`
		Session *domain.QuizSession `json:"session"`
		HasNext bool                `json:"hasNext"`
	}
	decodeData(t, env, &state)
	if state.Mode != domain.ModeQuiz || state.Session == nil || len(state.Session.QuestionIDs) != 2 || !state.HasNext {
		t.Fatalf("unexpected quiz state %+v", state)
	}

	if status, _ := call(t, http.MethodPost, server.URL+"/api/quiz/answer", map[string]any{"questionId": "2"}); status != http.StatusBadRequest {
		t.Fatalf("expected missing correct flag to fail validation, got %d", status)
	}
	call(t, http.MethodPost, server.URL+"/api/quiz/answer", map[string]any{"questionId": state.Session.QuestionIDs[0], "correct": true})
	call(t, http.MethodPost, server.URL+"/api/quiz/next", nil)
	call(t, http.MethodPost, server.URL+"/api/quiz/answer", map[string]any{"questionId": state.Session.QuestionIDs[1], "correct": false})

	_, env = call(t, http.MethodPost, server.URL+"/api/quiz/end", nil)
	var results struct {
		Total      int `json:"total"`
		Correct    int `json:"correct"`
		Percentage int `json:"percentage"`
	}
	decodeData(t, env, &results)
	if results.Total != 2 || results.Correct != 1 || results.Percentage != 50 {
		t.Fatalf("unexpected results %+v", results)
	}
	if status, _ := call(t, http.MethodPost, server.URL+"/api/quiz/answer", map[string]any{"questionId": "1", "correct": true}); status != http.StatusNotFound {
		t.Fatalf("expected 404 for an answer after the quiz ended, got %d", status)
	}

	_, env = call(t, http.MethodGet, server.URL+"/api/quiz", nil)
	state.Session = nil
	decodeData(t, env, &state)
	if state.Mode != domain.ModeStudy || state.Session != nil {
		t.Fatalf("expected study mode without session, got %+v", state)
	}

	if status, _ := call(t, http.MethodPut, server.URL+"/api/quiz/mode", map[string]any{"mode": "exam"}); status != http.StatusBadRequest {
		t.Fatalf("expected invalid mode to fail, got %d", status)
	}
	_, env = call(t, http.MethodPost, server.URL+"/api/quiz/mode/toggle", nil)
	state.Session = nil
	decodeData(t, env, &state)
	if state.Mode != domain.ModeQuiz || state.Session != nil {
		t.Fatalf("toggle to quiz must not start a session, got %+v", state)
	}
}

func TestFiltersEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	status, env := call(t, http.MethodPost, server.URL+"/api/filters/categories/css/toggle", nil)
	var view struct {
		ActiveFilters int    `json:"activeFilters"`
		Query         string `json:"query"`
	}
	decodeData(t, env, &view)
	if status != http.StatusOK || view.ActiveFilters != 1 || view.Query != "categories=css" {
		t.Fatalf("unexpected filters %d %+v", status, view)
	}

	if status, _ := call(t, http.MethodPost, server.URL+"/api/filters/tags/node,js/toggle", nil); status != http.StatusBadRequest {
		t.Fatalf("expected a tag with a comma to be rejected, got %d", status)
	}
	if status, _ := call(t, http.MethodPatch, server.URL+"/api/filters", map[string]any{"selectedTags": []string{"node,js"}}); status != http.StatusBadRequest {
		t.Fatalf("expected patched tags with a comma to be rejected, got %d", status)
	}
	if status, _ := call(t, http.MethodPost, server.URL+"/api/filters/difficulty/extreme/toggle", nil); status != http.StatusBadRequest {
		t.Fatalf("expected invalid difficulty to fail, got %d", status)
	}
	if status, _ := call(t, http.MethodPost, server.URL+"/api/filters/colour/red/toggle", nil); status != http.StatusBadRequest {
		t.Fatalf("expected unknown dimension to fail, got %d", status)
	}
	if status, _ := call(t, http.MethodPatch, server.URL+"/api/filters", map[string]any{"selectedStatus": "forgotten"}); status != http.StatusBadRequest {
		t.Fatalf("expected invalid status to fail, got %d", status)
	}

	_, env = call(t, http.MethodPatch, server.URL+"/api/filters", map[string]any{"searchQuery": "modele", "showOnlyFavorites": true})
	decodeData(t, env, &view)
	if view.ActiveFilters != 3 {
		t.Fatalf("expected 3 active filters, got %+v", view)
	}

	_, env = call(t, http.MethodDelete, server.URL+"/api/filters", nil)
	decodeData(t, env, &view)
	if view.ActiveFilters != 0 || view.Query != "" {
		t.Fatalf("expected reset filters, got %+v", view)
	}
}
