package http

import (
	"net/http"

	"interview-prep-service/internal/domain"
)

type quizState struct {
	Mode              domain.QuizMode     `json:"mode"`
	Session           *domain.QuizSession `json:"session,omitempty"`
	Progress          domain.QuizProgress `json:"progress"`
	CurrentQuestionID string              `json:"currentQuestionId,omitempty"`
	HasNext           bool                `json:"hasNext"`
	HasPrevious       bool                `json:"hasPrevious"`
	Complete          bool                `json:"complete"`
	Results           *domain.QuizResults `json:"results,omitempty"`
}

type startQuizRequest struct {
	Locale      string   `json:"locale" validate:"omitempty,oneof=en fr"`
	QuestionIDs []string `json:"questionIds" validate:"dive,required"`
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Correct    *bool  `json:"correct" validate:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=study quiz"`
}

func (a *API) quizState() quizState {
	quiz := a.study.Quiz
	state := quizState{
		Mode:        quiz.Mode(),
		Progress:    quiz.Progress(),
		HasNext:     quiz.HasNext(),
		HasPrevious: quiz.HasPrevious(),
		Complete:    quiz.IsComplete(),
	}
	if session, ok := quiz.Session(); ok {
		state.Session = &session
	}
	if id, ok := quiz.CurrentQuestionID(); ok {
		state.CurrentQuestionID = id
	}
	if results, ok := quiz.Results(); ok {
		state.Results = &results
	}
	return state
}

func (a *API) GetQuiz(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "", a.quizState())
}

// StartQuiz starts over the given ids, or over the currently browsed questions when none are given.
func (a *API) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	locale := a.defaultLocale
	if req.Locale != "" {
		locale = domain.Locale(req.Locale)
	}
	if _, err := a.study.StartQuiz(r.Context(), locale, req.QuestionIDs); err != nil {
		a.fail(w, err)
		return
	}
	writeOK(w, "quiz started", a.quizState())
}

func (a *API) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if !a.study.Quiz.RecordAnswer(req.QuestionID, *req.Correct) {
		a.fail(w, domain.ErrNoActiveQuiz)
		return
	}
	writeOK(w, "answer recorded", a.quizState())
}

func (a *API) NextQuestion(w http.ResponseWriter, r *http.Request) {
	a.study.Quiz.Next()
	writeOK(w, "", a.quizState())
}

func (a *API) PreviousQuestion(w http.ResponseWriter, r *http.Request) {
	a.study.Quiz.Previous()
	writeOK(w, "", a.quizState())
}

// EndQuiz returns the final results and switches back to study mode.
func (a *API) EndQuiz(w http.ResponseWriter, r *http.Request) {
	results, ok := a.study.Quiz.End()
	if !ok {
		a.fail(w, domain.ErrNoActiveQuiz)
		return
	}
	writeOK(w, "quiz ended", results)
}

func (a *API) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	a.study.Quiz.Reset()
	writeOK(w, "quiz reset", a.quizState())
}

func (a *API) SetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	mode, err := domain.ParseQuizMode(req.Mode)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.study.Quiz.SetMode(mode)
	writeOK(w, "", a.quizState())
}

func (a *API) ToggleMode(w http.ResponseWriter, r *http.Request) {
	a.study.Quiz.ToggleMode()
	writeOK(w, "", a.quizState())
}
