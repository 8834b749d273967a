// Package worker provides the crowdsay HTTP API: vote intake, tallying,
// leaderboards, and guess checking.
package worker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/crowdsay/crowdsay/internal/store"
	"github.com/crowdsay/crowdsay/internal/tally"
)

// Server wires the HTTP API to the stores and the tally service.
type Server struct {
	questions *store.QuestionStore
	answers   *store.AnswerStore
	tally     *tally.Service
}

// NewServer creates a server.
func NewServer(questions *store.QuestionStore, answers *store.AnswerStore, tallySvc *tally.Service) *Server {
	return &Server{
		questions: questions,
		answers:   answers,
		tally:     tallySvc,
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/questions", s.handleCreateQuestion)
		r.Get("/questions/{questionID}", s.handleGetQuestion)
		r.Post("/questions/{questionID}/votes", s.handleAddVote)
		r.Post("/questions/{questionID}/tally", s.handleTally)
		r.Get("/questions/{questionID}/answers", s.handleGetAnswers)
		r.Post("/questions/{questionID}/guess", s.handleGuess)
	})

	return r
}

// requestLogger emits one structured log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
