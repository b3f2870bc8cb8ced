package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Locale identifies a content collection.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

// Locales lists every supported content locale.
var Locales = []Locale{LocaleFR, LocaleEN}

// ParseLocale validates a locale code.
func ParseLocale(raw string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleEN:
		return LocaleEN, nil
	case LocaleFR:
		return LocaleFR, nil
	}
	return "", ErrUnsupportedLocale
}

// Difficulty is the optional difficulty level of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Category is the fixed enumeration of question categories.
type Category string

const (
	CategoryJavaScript Category = "javascript"
	CategoryHTML       Category = "html"
	CategoryCSS        Category = "css"
	CategoryVueJS      Category = "vuejs"
	CategoryReactJS    Category = "reactjs"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryJavaScript, CategoryHTML, CategoryCSS, CategoryVueJS, CategoryReactJS}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// QuestionID is the opaque question key. Content may author it as a number or a string;
// it is always carried as its decimal/string form.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

// Numeric returns the id as a number for display ordering; non-numeric ids order as 0.
func (id QuestionID) Numeric() float64 {
	n, err := strconv.ParseFloat(string(id), 64)
	if err != nil {
		return 0
	}
	return n
}

// QuestionMeta carries the authored front matter of a question.
type QuestionMeta struct {
	Title      string     `json:"title" validate:"required"`
	Slug       string     `json:"slug" validate:"required"`
	Category   Category   `json:"category" validate:"required,category"`
	Difficulty Difficulty `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Tags       []string   `json:"tags,omitempty" validate:"dive,required,excludes=0x2C"`
}

// Question is a read-only record owned by the content collaborator.
type Question struct {
	ID     QuestionID   `json:"id" validate:"required"`
	Locale Locale       `json:"locale,omitempty"`
	Meta   QuestionMeta `json:"meta"`
	Path   string       `json:"path,omitempty"`
	Body   string       `json:"body,omitempty"`
}

// HomeContent is the per-locale landing page record.
type HomeContent struct {
	Locale      Locale `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"`
}

// ProgressStatus is the viewing/mastery status of a question.
type ProgressStatus string

const (
	StatusNotSeen  ProgressStatus = "not-seen"
	StatusSeen     ProgressStatus = "seen"
	StatusMastered ProgressStatus = "mastered"
)

// ProgressEntry is persisted under "question-progress". Timestamps are epoch milliseconds.
type ProgressEntry struct {
	Status     ProgressStatus `json:"status"`
	LastViewed int64          `json:"lastViewed,omitempty"`
	ViewCount  int            `json:"viewCount"`
}

// ProgressStats counts stored progress entries.
type ProgressStats struct {
	Total    int `json:"total"`
	Seen     int `json:"seen"`
	Mastered int `json:"mastered"`
}

// RevealEntry is persisted under "answer-reveal-state".
type RevealEntry struct {
	Revealed     bool   `json:"revealed"`
	RevealedAt   int64  `json:"revealedAt,omitempty"`
	RevealCount  int    `json:"revealCount"`
	TimeToReveal *int64 `json:"timeToReveal,omitempty"`
}

// RevealStats aggregates reveal entries. AvgTimeToReveal is in whole seconds.
type RevealStats struct {
	TotalReveals      int `json:"totalReveals"`
	QuestionsRevealed int `json:"questionsRevealed"`
	AvgTimeToReveal   int `json:"avgTimeToReveal"`
}

// QuizMode is the persisted study/quiz preference.
type QuizMode string

const (
	ModeStudy QuizMode = "study"
	ModeQuiz  QuizMode = "quiz"
)

func ParseQuizMode(raw string) (QuizMode, error) {
	switch QuizMode(raw) {
	case ModeStudy:
		return ModeStudy, nil
	case ModeQuiz:
		return ModeQuiz, nil
	}
	return "", ErrInvalidMode
}

// QuizAnswer is one recorded answer; a question may be answered more than once.
type QuizAnswer struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
	Timestamp  int64  `json:"timestamp"`
}

// QuizSession is the ephemeral quiz run. It is never persisted.
type QuizSession struct {
	ID           string       `json:"id"`
	Mode         QuizMode     `json:"mode"`
	StartedAt    int64        `json:"startedAt"`
	QuestionIDs  []string     `json:"questionIds"`
	CurrentIndex int          `json:"currentIndex"`
	Answers      []QuizAnswer `json:"answers"`
}

// QuizProgress is the 1-based cursor position within a session.
type QuizProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// QuizResults summarizes the recorded answers of a session.
type QuizResults struct {
	Total      int           `json:"total"`
	Correct    int           `json:"correct"`
	Incorrect  int           `json:"incorrect"`
	Percentage int           `json:"percentage"`
	Duration   time.Duration `json:"-"`
}

// MarshalJSON reports Duration in milliseconds.
func (r QuizResults) MarshalJSON() ([]byte, error) {
	type alias QuizResults
	return json.Marshal(struct {
		alias
		Duration int64 `json:"duration"`
	}{alias: alias(r), Duration: r.Duration.Milliseconds()})
}

// FilterStatus selects questions by progress status.
type FilterStatus string

const (
	FilterAll      FilterStatus = "all"
	FilterNotSeen  FilterStatus = "not-seen"
	FilterSeen     FilterStatus = "seen"
	FilterMastered FilterStatus = "mastered"
)

func (s FilterStatus) Valid() bool {
	switch s {
	case FilterAll, FilterNotSeen, FilterSeen, FilterMastered:
		return true
	}
	return false
}

// FilterState is the set of filter dimensions combined with AND.
type FilterState struct {
	SearchQuery          string       `json:"searchQuery"`
	SelectedDifficulties []Difficulty `json:"selectedDifficulties"`
	SelectedCategories   []Category   `json:"selectedCategories"`
	SelectedTags         []string     `json:"selectedTags"`
	SelectedStatus       FilterStatus `json:"selectedStatus"`
	ShowOnlyFavorites    bool         `json:"showOnlyFavorites"`
}

// DefaultFilterState returns every dimension at its default.
func DefaultFilterState() FilterState {
	return FilterState{
		SelectedDifficulties: []Difficulty{},
		SelectedCategories:   []Category{},
		SelectedTags:         []string{},
		SelectedStatus:       FilterAll,
	}
}

// Store names used in change notifications and as persisted keys.
const (
	StoreProgress  = "question-progress"
	StoreFavorites = "question-favorites"
	StoreReveals   = "answer-reveal-state"
	StoreQuizMode  = "quiz-mode"
	StoreQuiz      = "quiz-session"
	StoreFilters   = "question-filters"
)

// StateChange is published after every state mutation.
type StateChange struct {
	Store      string `json:"store"`
	QuestionID string `json:"questionId,omitempty"`
	Action     string `json:"action"`
	At         int64  `json:"at"`
}

// Millis converts t to epoch milliseconds, the timestamp unit of persisted state.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// SortQuestions orders questions by ascending numeric id; equal keys keep their order.
func SortQuestions(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].ID.Numeric() < questions[j].ID.Numeric()
	})
}
