package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"interview-prep-service/internal/domain"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var errInvalidBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

// writeError maps err onto a status code; only server errors are logged.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := http.StatusInternalServerError
	res := Response{Success: false, Message: "Internal Server Error"}

	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		status = http.StatusBadRequest
		res.Message = "validation failed"
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		res.Error = fields
	case errors.Is(err, errInvalidBody),
		errors.Is(err, domain.ErrUnsupportedLocale),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, errUnknownDimension),
		errors.Is(err, errInvalidFilterValue):
		status = http.StatusBadRequest
		res.Message = "bad request"
		res.Error = err.Error()
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrHomeNotFound),
		errors.Is(err, domain.ErrNoActiveQuiz):
		status = http.StatusNotFound
		res.Message = "not found"
		res.Error = err.Error()
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, res)
}
