package app

import (
	"context"
	"fmt"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// NextQuestionResult is the question to show next. Question is nil once the quizz is exhausted.
type NextQuestionResult struct {
	Question *domain.Question
	IsLast   bool
}

// NextQuestion returns the question following afterQuestionID in a published quizz, or the first
// one when afterQuestionID is empty.
func (s *TakerService) NextQuestion(ctx context.Context, quizzID, afterQuestionID string) (NextQuestionResult, error) {
	next, err := s.nextQuestion(ctx, quizzID, afterQuestionID)
	if err != nil {
		return NextQuestionResult{}, s.reject("next_question", err)
	}
	return next, nil
}

func (s *TakerService) nextQuestion(ctx context.Context, quizzID, afterQuestionID string) (NextQuestionResult, error) {
	if err := domain.ValidateID("quizzId", quizzID); err != nil {
		return NextQuestionResult{}, err
	}
	if afterQuestionID != "" {
		if err := domain.ValidateID("after", afterQuestionID); err != nil {
			return NextQuestionResult{}, err
		}
	}

	quizz, err := s.quizzes.FindPublishedByID(ctx, quizzID)
	if err != nil {
		return NextQuestionResult{}, err
	}
	if quizz == nil {
		return NextQuestionResult{}, fmt.Errorf("%w: %s", domain.ErrQuizzNotFound, quizzID)
	}

	question, err := s.questions.FindNext(ctx, quizzID, afterQuestionID)
	if err != nil {
		return NextQuestionResult{}, err
	}
	if question == nil {
		return NextQuestionResult{IsLast: true}, nil
	}

	following, err := s.questions.FindNext(ctx, quizzID, question.ID)
	if err != nil {
		return NextQuestionResult{}, err
	}
	return NextQuestionResult{Question: question, IsLast: following == nil}, nil
}
