package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/go-chi/chi/v5"
)

type savePlayerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type playerView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type saveAttemptRequest struct {
	QuizzID     string     `json:"quizzId"`
	PlayerID    string     `json:"playerId"`
	IsCorrect   *bool      `json:"isCorrect,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type attemptView struct {
	ID                     string     `json:"id"`
	QuizzID                string     `json:"quizzId"`
	PlayerID               string     `json:"playerId"`
	StartedAt              time.Time  `json:"startedAt"`
	CompletedAt            *time.Time `json:"completedAt"`
	Score                  int        `json:"score"`
	TotalQuestionsAnswered int        `json:"totalQuestionsAnswered"`
}

type submitAnswerRequest struct {
	AttemptID   string `json:"attemptId"`
	QuestionID  string `json:"questionId"`
	AnswerID    string `json:"answerId"`
	TimeTakenMs int    `json:"timeTakenMs"`
	QuizzID     string `json:"quizzId"`
	PlayerID    string `json:"playerId"`
	Final       bool   `json:"final,omitempty"`
}

type responseView struct {
	ID          string    `json:"id"`
	AttemptID   string    `json:"attemptId"`
	QuestionID  string    `json:"questionId"`
	AnswerID    string    `json:"answerId"`
	IsCorrect   bool      `json:"isCorrect"`
	TimeTakenMs int       `json:"timeTakenMs"`
	RespondedAt time.Time `json:"respondedAt"`
}

type submitAnswerView struct {
	Response responseView `json:"response"`
	Attempt  attemptView  `json:"attempt"`
}

type nextQuestionView struct {
	Question *domain.Question `json:"question"`
	IsLast   bool             `json:"isLast"`
}

func (s *Server) handleSavePlayer(w http.ResponseWriter, r *http.Request) {
	var req savePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}
	player, err := s.service.SavePlayer(r.Context(), app.SavePlayerInput{Email: req.Email, Name: req.Name})
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, playerView{ID: player.ID(), Email: player.Email(), Name: player.Name()})
}

func (s *Server) handleSaveAttempt(w http.ResponseWriter, r *http.Request) {
	var req saveAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}
	attempt, err := s.service.SaveAttempt(r.Context(), app.SaveAttemptInput{
		QuizzID:     req.QuizzID,
		PlayerID:    req.PlayerID,
		IsCorrect:   req.IsCorrect,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toAttemptView(attempt))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return
	}
	result, err := s.service.SubmitAnswer(r.Context(), app.SubmitAnswerInput{
		AttemptID:   req.AttemptID,
		QuestionID:  req.QuestionID,
		AnswerID:    req.AnswerID,
		TimeTakenMs: req.TimeTakenMs,
		QuizzID:     req.QuizzID,
		PlayerID:    req.PlayerID,
		Final:       req.Final,
	})
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, submitAnswerView{
		Response: toResponseView(result.Response),
		Attempt:  toAttemptView(result.Attempt),
	})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	next, err := s.service.NextQuestion(r.Context(), chi.URLParam(r, "quizzId"), r.URL.Query().Get("after"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	if next.Question == nil {
		s.respondError(w, http.StatusNotFound, "no_more_questions", "the quizz has no further question")
		return
	}
	s.respondJSON(w, http.StatusOK, nextQuestionView{Question: next.Question, IsLast: next.IsLast})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.respondError(w, http.StatusBadRequest, "validation_error", "invalid limit: must be a non-negative integer")
			return
		}
		limit = parsed
	}
	board, err := s.service.Leaderboard(r.Context(), chi.URLParam(r, "quizzId"), limit)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, board)
}

func toAttemptView(a *domain.Attempt) attemptView {
	return attemptView{
		ID:                     a.ID(),
		QuizzID:                a.QuizzID(),
		PlayerID:               a.PlayerID(),
		StartedAt:              a.StartedAt(),
		CompletedAt:            a.CompletedAt(),
		Score:                  a.Score(),
		TotalQuestionsAnswered: a.TotalQuestionsAnswered(),
	}
}

func toResponseView(resp *domain.Response) responseView {
	return responseView{
		ID:          resp.ID(),
		AttemptID:   resp.AttemptID(),
		QuestionID:  resp.QuestionID(),
		AnswerID:    resp.AnswerID(),
		IsCorrect:   resp.IsCorrect(),
		TimeTakenMs: resp.TimeTakenMs(),
		RespondedAt: resp.RespondedAt(),
	}
}
