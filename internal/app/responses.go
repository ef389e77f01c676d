package app

import (
	"context"
	"fmt"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// SaveResponseInput records one answered question.
type SaveResponseInput struct {
	AttemptID   string
	QuestionID  string
	AnswerID    string
	TimeTakenMs int
}

func (in SaveResponseInput) validate() error {
	if err := domain.ValidateID("attemptId", in.AttemptID); err != nil {
		return err
	}
	if err := domain.ValidateID("questionId", in.QuestionID); err != nil {
		return err
	}
	if err := domain.ValidateID("answerId", in.AnswerID); err != nil {
		return err
	}
	return domain.ValidateTimeTaken(in.TimeTakenMs)
}

// SaveResponse stamps the response with the answer's current correctness and persists it.
// It does not touch the attempt; SubmitAnswer does both.
func (s *TakerService) SaveResponse(ctx context.Context, in SaveResponseInput) (*domain.Response, error) {
	if err := in.validate(); err != nil {
		return nil, s.reject("save_response", err)
	}
	answer, err := s.lookupAnswer(ctx, in.AnswerID)
	if err != nil {
		return nil, s.reject("save_response", err)
	}
	response, err := s.newResponse(in, answer)
	if err != nil {
		return nil, s.reject("save_response", err)
	}
	if err := s.responses.Save(ctx, response); err != nil {
		return nil, s.reject("save_response", err)
	}
	s.metrics.ResponseRecorded(response.IsCorrect())
	return response, nil
}

// SubmitAnswerInput is one answer submission from a player taking a quizz.
// Final completes the attempt once the answer is counted.
type SubmitAnswerInput struct {
	AttemptID   string
	QuestionID  string
	AnswerID    string
	TimeTakenMs int
	QuizzID     string
	PlayerID    string
	Final       bool
}

// SubmitAnswerResult holds what a submission persisted.
type SubmitAnswerResult struct {
	Response *domain.Response
	Attempt  *domain.Attempt
}

// SubmitAnswer records the response and counts it on the attempt in one unit of work.
// The first submission for a (player, quizz) pair creates the attempt under AttemptID.
func (s *TakerService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (SubmitAnswerResult, error) {
	responseInput := SaveResponseInput{
		AttemptID:   in.AttemptID,
		QuestionID:  in.QuestionID,
		AnswerID:    in.AnswerID,
		TimeTakenMs: in.TimeTakenMs,
	}
	if err := responseInput.validate(); err != nil {
		return SubmitAnswerResult{}, s.reject("submit_answer", err)
	}
	if err := validateAttemptKey(in.QuizzID, in.PlayerID); err != nil {
		return SubmitAnswerResult{}, s.reject("submit_answer", err)
	}

	answer, err := s.lookupAnswer(ctx, in.AnswerID)
	if err != nil {
		return SubmitAnswerResult{}, s.reject("submit_answer", err)
	}

	var (
		result  SubmitAnswerResult
		created bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		attempt, isNew, err := s.findOrStartAttempt(ctx, in.QuizzID, in.PlayerID, in.AttemptID)
		if err != nil {
			return err
		}
		response, err := s.newResponse(responseInput, answer)
		if err != nil {
			return err
		}
		correct := response.IsCorrect()
		// Every check runs before the first write; the memory transactor cannot roll back.
		if err := s.applyOutcome(attempt, &correct, in.Final); err != nil {
			return err
		}
		existing, err := s.responses.FindByQuestionIDAndAttemptID(ctx, in.QuestionID, in.AttemptID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: question %s", domain.ErrDuplicateResponse, in.QuestionID)
		}
		if err := s.attempts.Save(ctx, attempt); err != nil {
			return err
		}
		if err := s.responses.Save(ctx, response); err != nil {
			return err
		}
		result = SubmitAnswerResult{Response: response, Attempt: attempt}
		created = isNew
		return nil
	})
	if err != nil {
		return SubmitAnswerResult{}, s.reject("submit_answer", err)
	}

	s.metrics.ResponseRecorded(result.Response.IsCorrect())
	s.attemptSaved(ctx, result.Attempt, created, in.Final)
	return result, nil
}

func (s *TakerService) lookupAnswer(ctx context.Context, answerID string) (*domain.Answer, error) {
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnswerNotFound, answerID)
	}
	return answer, nil
}

func (s *TakerService) newResponse(in SaveResponseInput, answer *domain.Answer) (*domain.Response, error) {
	return domain.NewResponse(domain.ResponseProps{
		AttemptID:   in.AttemptID,
		QuestionID:  in.QuestionID,
		AnswerID:    in.AnswerID,
		IsCorrect:   answer.IsCorrect,
		TimeTakenMs: in.TimeTakenMs,
		RespondedAt: s.now(),
	})
}
