package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"interview-prep-service/internal/app"
	"interview-prep-service/internal/content"
	"interview-prep-service/internal/domain"
)

// API exposes the study application context over REST.
type API struct {
	study         *app.Study
	log           logrus.FieldLogger
	validate      *validator.Validate
	defaultLocale domain.Locale
}

// NewAPI wires handlers to study. validate must know the "category" tag; nil selects content.NewValidator.
func NewAPI(study *app.Study, validate *validator.Validate, defaultLocale domain.Locale, log logrus.FieldLogger) *API {
	if validate == nil {
		validate = content.NewValidator()
	}
	if defaultLocale == "" {
		defaultLocale = domain.LocaleFR
	}
	return &API{
		study:         study,
		log:           log.WithField("component", "api"),
		validate:      validate,
		defaultLocale: defaultLocale,
	}
}

func (a *API) locale(r *http.Request) (domain.Locale, error) {
	return domain.ParseLocale(chi.URLParam(r, "locale"))
}

// decode reads an optional JSON body into dst and validates it. An empty body leaves dst untouched.
func (a *API) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return a.validate.Struct(dst)
}

func (a *API) fail(w http.ResponseWriter, err error) {
	writeError(w, a.log, err)
}
