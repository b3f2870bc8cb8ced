package domain

import "errors"

var (
	// ErrQuestionNotFound is returned when no question matches an id or slug.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnsupportedLocale is returned for locales without a content collection.
	ErrUnsupportedLocale = errors.New("unsupported locale")
	// ErrInvalidMode is returned when a quiz mode is neither study nor quiz.
	ErrInvalidMode = errors.New("invalid quiz mode")
	// ErrNoActiveQuiz is returned by transports asking for results without a session.
	ErrNoActiveQuiz = errors.New("no active quiz session")
	// ErrStorageUnavailable is returned by storage that cannot persist anything.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidQuestion wraps content records that fail validation.
	ErrInvalidQuestion = errors.New("invalid question record")
)

// ErrHomeNotFound indicates a locale has no landing page record.
var ErrHomeNotFound = errors.New("home content not found")
