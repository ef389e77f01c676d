package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"go.uber.org/zap"
)

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Error: &apiError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("failed to encode error response", zap.Error(err))
	}
}

// respondFailure maps a use-case error onto the HTTP surface. Internal errors are not echoed.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	s.respondError(w, status, code, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrAnswerNotFound):
		return http.StatusNotFound, "answer_not_found"
	case errors.Is(err, domain.ErrQuizzNotFound):
		return http.StatusNotFound, "quizz_not_found"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound, "question_not_found"
	case errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound, "attempt_not_found"
	case errors.Is(err, domain.ErrAttemptAlreadyCompleted):
		return http.StatusConflict, "attempt_completed"
	case errors.Is(err, domain.ErrDuplicateResponse):
		return http.StatusConflict, "duplicate_response"
	case errors.Is(err, domain.ErrAttemptConflict):
		return http.StatusConflict, "attempt_conflict"
	case errors.Is(err, domain.ErrPlayerEmailTaken):
		return http.StatusConflict, "email_taken"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
