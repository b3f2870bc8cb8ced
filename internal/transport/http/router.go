package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"interview-prep-service/internal/metrics"
)

// NewRouter mounts the REST API, the change stream and the operational endpoints.
// m may be nil when metrics are disabled.
func NewRouter(api *API, ws *WSHandler, m *metrics.Metrics, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/{locale}", func(r chi.Router) {
			r.Get("/questions", api.ListQuestions)
			r.Get("/questions/{id}", api.GetQuestion)
			r.Get("/tags", api.ListTags)
			r.Get("/home", api.GetHome)
			r.Get("/overview", api.GetOverview)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/", api.ListProgress)
			r.Delete("/", api.ResetAllProgress)
			r.Get("/{id}", api.GetProgress)
			r.Delete("/{id}", api.ResetProgress)
			r.Post("/{id}/{status}", api.MarkProgress)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", api.ListFavorites)
			r.Delete("/", api.ClearFavorites)
			r.Put("/{id}", api.AddFavorite)
			r.Delete("/{id}", api.RemoveFavorite)
			r.Post("/{id}/toggle", api.ToggleFavorite)
		})

		r.Route("/reveals", func(r chi.Router) {
			r.Get("/stats", api.RevealStats)
			r.Get("/{id}", api.GetReveal)
			r.Delete("/{id}", api.ResetReveal)
			r.Post("/{id}/reveal", api.Reveal)
			r.Post("/{id}/hide", api.Hide)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", api.GetQuiz)
			r.Delete("/", api.ResetQuiz)
			r.Post("/start", api.StartQuiz)
			r.Post("/answer", api.AnswerQuiz)
			r.Post("/next", api.NextQuestion)
			r.Post("/previous", api.PreviousQuestion)
			r.Post("/end", api.EndQuiz)
			r.Put("/mode", api.SetMode)
			r.Post("/mode/toggle", api.ToggleMode)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", api.GetFilters)
			r.Delete("/", api.ResetFilters)
			r.Patch("/", api.PatchFilters)
			r.Post("/{dimension}/{value}/toggle", api.ToggleFilter)
		})
	})
	return r
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
				"request_id": chimiddleware.GetReqID(r.Context()),
			}).Debug("request")
		})
	}
}
