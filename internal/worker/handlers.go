package worker

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/crowdsay/crowdsay/internal/game"
	"github.com/crowdsay/crowdsay/internal/store"
	"github.com/crowdsay/crowdsay/pkg/models"
)

type createQuestionRequest struct {
	Prompt     string `json:"prompt"`
	ActiveDate string `json:"active_date"`
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	q, err := s.questions.CreateQuestion(r.Context(), req.Prompt, req.ActiveDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.questions.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type addVoteRequest struct {
	Response string `json:"response"`
}

func (s *Server) handleAddVote(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	var req addVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Response) == "" {
		writeError(w, http.StatusBadRequest, "response is required")
		return
	}

	q, err := s.questions.GetQuestion(r.Context(), questionID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if q.Status != models.QuestionVoting {
		writeError(w, http.StatusConflict, "question is not accepting votes")
		return
	}

	vote, err := s.questions.AddVote(r.Context(), questionID, req.Response)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	ranked, err := s.tally.TallyQuestion(r.Context(), questionID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"question_id": questionID,
		"answers":     ranked,
	})
}

func (s *Server) handleGetAnswers(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	limit := store.ParseLimitParam(r, game.ScoringPool)
	answers, err := s.answers.GetRankedAnswers(r.Context(), questionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if answers == nil {
		answers = []models.RankedAnswer{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"question_id": questionID,
		"answers":     answers,
	})
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type guessResponse struct {
	Match  bool                `json:"match"`
	Result *models.GuessResult `json:"result,omitempty"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "questionID")

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Guess) == "" {
		writeError(w, http.StatusBadRequest, "guess is required")
		return
	}

	answers, err := s.answers.GetRankedAnswers(r.Context(), questionID, game.ScoringPool)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(answers) == 0 {
		writeError(w, http.StatusConflict, "question has not been tallied")
		return
	}

	result, ok := game.CheckGuess(req.Guess, answers, game.PoolTotal(answers))
	resp := guessResponse{Match: ok}
	if ok {
		resp.Result = &result
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
