package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"interview-prep-service/internal/domain"
)

// quizSession is the shared, never persisted, session slot of a registry.
type quizSession struct {
	mu      sync.Mutex
	current *domain.QuizSession
}

// Quiz manages the study/quiz mode preference and the ephemeral quiz session.
type Quiz struct {
	mode     *ValueState[domain.QuizMode]
	session  *quizSession
	registry *Registry
	now      func() time.Time
	rnd      *rand.Rand
}

func NewQuiz(r *Registry) *Quiz {
	return &Quiz{
		mode: Value(r, domain.StoreQuizMode, domain.ModeStudy, func(m domain.QuizMode) domain.QuizMode {
			if m == domain.ModeQuiz {
				return domain.ModeQuiz
			}
			return domain.ModeStudy
		}),
		session:  r.sharedInstance(domain.StoreQuiz, func() any { return &quizSession{} }).(*quizSession),
		registry: r,
		now:      r.now,
		rnd:      r.rnd,
	}
}

// Mode returns the persisted study/quiz preference.
func (q *Quiz) Mode() domain.QuizMode {
	return q.mode.Get()
}

// ToggleMode flips the mode; landing on study discards the session.
func (q *Quiz) ToggleMode() domain.QuizMode {
	q.session.mu.Lock()
	next := domain.ModeQuiz
	if q.mode.Get() == domain.ModeQuiz {
		next = domain.ModeStudy
	}
	q.setModeLocked(next)
	q.session.mu.Unlock()
	return next
}

// SetMode switches mode. Switching to quiz does not create a session.
func (q *Quiz) SetMode(mode domain.QuizMode) {
	q.session.mu.Lock()
	q.setModeLocked(mode)
	q.session.mu.Unlock()
}

func (q *Quiz) setModeLocked(mode domain.QuizMode) {
	q.mode.Set(mode, "mode")
	if mode == domain.ModeStudy && q.session.current != nil {
		q.session.current = nil
		q.registry.publish(domain.StoreQuiz, "", "discarded")
	}
}

// Start replaces any session with a new one over a shuffled copy of questionIDs.
func (q *Quiz) Start(questionIDs []string) domain.QuizSession {
	shuffled := append([]string{}, questionIDs...)

	q.session.mu.Lock()
	q.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	q.session.current = &domain.QuizSession{
		ID:           uuid.NewString(),
		Mode:         domain.ModeQuiz,
		StartedAt:    domain.Millis(q.now()),
		QuestionIDs:  shuffled,
		CurrentIndex: 0,
		Answers:      []domain.QuizAnswer{},
	}
	q.mode.Set(domain.ModeQuiz, "mode")
	snapshot := cloneSession(q.session.current)
	q.session.mu.Unlock()

	q.registry.publish(domain.StoreQuiz, "", "started")
	return snapshot
}

// RecordAnswer appends an answer and reports whether a session was active.
// Repeated answers for one question all count.
func (q *Quiz) RecordAnswer(questionID string, correct bool) bool {
	q.session.mu.Lock()
	s := q.session.current
	if s == nil {
		q.session.mu.Unlock()
		return false
	}
	s.Answers = append(s.Answers, domain.QuizAnswer{
		QuestionID: questionID,
		Correct:    correct,
		Timestamp:  domain.Millis(q.now()),
	})
	q.session.mu.Unlock()

	q.registry.publish(domain.StoreQuiz, questionID, "answered")
	return true
}

// Next advances the cursor, never past the last question.
func (q *Quiz) Next() {
	q.move(1)
}

// Previous moves the cursor back, never before the first question.
func (q *Quiz) Previous() {
	q.move(-1)
}

func (q *Quiz) move(delta int) {
	q.session.mu.Lock()
	s := q.session.current
	if s == nil {
		q.session.mu.Unlock()
		return
	}
	idx := s.CurrentIndex + delta
	if idx > len(s.QuestionIDs)-1 {
		idx = len(s.QuestionIDs) - 1
	}
	if idx < 0 {
		idx = 0
	}
	moved := idx != s.CurrentIndex
	s.CurrentIndex = idx
	q.session.mu.Unlock()

	if moved {
		q.registry.publish(domain.StoreQuiz, "", "moved")
	}
}

// Session returns a copy of the active session.
func (q *Quiz) Session() (domain.QuizSession, bool) {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	if q.session.current == nil {
		return domain.QuizSession{}, false
	}
	return cloneSession(q.session.current), true
}

// CurrentQuestionID returns the id under the cursor.
func (q *Quiz) CurrentQuestionID() (string, bool) {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	s := q.session.current
	if s == nil || len(s.QuestionIDs) == 0 {
		return "", false
	}
	return s.QuestionIDs[s.CurrentIndex], true
}

func (q *Quiz) HasNext() bool {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	s := q.session.current
	return s != nil && s.CurrentIndex < len(s.QuestionIDs)-1
}

func (q *Quiz) HasPrevious() bool {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	s := q.session.current
	return s != nil && s.CurrentIndex > 0
}

// Progress returns the 1-based position, or zeros without a session.
func (q *Quiz) Progress() domain.QuizProgress {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	s := q.session.current
	if s == nil {
		return domain.QuizProgress{}
	}
	return domain.QuizProgress{Current: s.CurrentIndex + 1, Total: len(s.QuestionIDs)}
}

// Results scores the recorded answers; Total counts answers, not questions.
func (q *Quiz) Results() (domain.QuizResults, bool) {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	return q.resultsLocked()
}

func (q *Quiz) resultsLocked() (domain.QuizResults, bool) {
	s := q.session.current
	if s == nil {
		return domain.QuizResults{}, false
	}
	results := domain.QuizResults{Total: len(s.Answers)}
	for _, a := range s.Answers {
		if a.Correct {
			results.Correct++
		}
	}
	results.Incorrect = results.Total - results.Correct
	results.Percentage = percentage(results.Correct, results.Total)
	results.Duration = time.Duration(domain.Millis(q.now())-s.StartedAt) * time.Millisecond
	return results, true
}

// IsComplete compares the number of answers with the number of questions.
func (q *Quiz) IsComplete() bool {
	q.session.mu.Lock()
	defer q.session.mu.Unlock()
	s := q.session.current
	return s != nil && len(s.Answers) == len(s.QuestionIDs)
}

// End captures the results, discards the session and returns to study mode.
func (q *Quiz) End() (domain.QuizResults, bool) {
	q.session.mu.Lock()
	results, ok := q.resultsLocked()
	q.session.current = nil
	q.mode.Set(domain.ModeStudy, "mode")
	q.session.mu.Unlock()

	q.registry.publish(domain.StoreQuiz, "", "ended")
	return results, ok
}

// Reset discards the session and leaves the mode alone.
func (q *Quiz) Reset() {
	q.session.mu.Lock()
	q.session.current = nil
	q.session.mu.Unlock()

	q.registry.publish(domain.StoreQuiz, "", "reset")
}

func cloneSession(s *domain.QuizSession) domain.QuizSession {
	out := *s
	out.QuestionIDs = append([]string{}, s.QuestionIDs...)
	out.Answers = append([]domain.QuizAnswer{}, s.Answers...)
	return out
}
