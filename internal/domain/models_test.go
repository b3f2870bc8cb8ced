package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseLocale(t *testing.T) {
	if got, err := ParseLocale(" FR "); err != nil || got != LocaleFR {
		t.Fatalf("expected fr, got %q err=%v", got, err)
	}
	if _, err := ParseLocale("de"); !errors.Is(err, ErrUnsupportedLocale) {
		t.Fatalf("expected unsupported locale, got %v", err)
	}
}

func TestQuestionIDAcceptsNumbers(t *testing.T) {
	var q Question
	if err := json.Unmarshal([]byte(`{"id":42,"meta":{"title":"t","slug":"s","category":"css"}}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.ID != "42" || q.ID.Numeric() != 42 {
		t.Fatalf("unexpected id %q", q.ID)
	}
	if QuestionID("intro").Numeric() != 0 {
		t.Fatalf("non-numeric ids must order as 0")
	}
}

func TestSortQuestionsIsNumericAndStable(t *testing.T) {
	questions := []Question{{ID: "10"}, {ID: "b"}, {ID: "2"}, {ID: "a"}, {ID: "1"}}
	SortQuestions(questions)

	want := []QuestionID{"b", "a", "1", "2", "10"}
	for i, q := range questions {
		if q.ID != want[i] {
			t.Fatalf("position %d: got %q want %q", i, q.ID, want[i])
		}
	}
}

func TestParseQuizMode(t *testing.T) {
	if mode, err := ParseQuizMode("quiz"); err != nil || mode != ModeQuiz {
		t.Fatalf("unexpected mode %q err=%v", mode, err)
	}
	if _, err := ParseQuizMode("exam"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
}
