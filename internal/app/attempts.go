package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"go.uber.org/zap"
)

// SaveAttemptInput drives the attempt upsert flow.
//
// IsCorrect reports the outcome of one answered question; nil means the call counts no answer
// (the start-of-quizz call, or a completion-only call). CompletedAt, when set, completes the
// attempt after the outcome is applied. The attempt is stamped with the service clock, not with
// the supplied value.
type SaveAttemptInput struct {
	QuizzID     string
	PlayerID    string
	IsCorrect   *bool
	CompletedAt *time.Time
}

// SaveAttempt finds or creates the attempt of the player for the quizz, applies the outcome and
// saves it once.
func (s *TakerService) SaveAttempt(ctx context.Context, in SaveAttemptInput) (*domain.Attempt, error) {
	if err := validateAttemptKey(in.QuizzID, in.PlayerID); err != nil {
		return nil, s.reject("save_attempt", err)
	}

	var (
		saved   *domain.Attempt
		created bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		attempt, isNew, err := s.findOrStartAttempt(ctx, in.QuizzID, in.PlayerID, "")
		if err != nil {
			return err
		}
		if err := s.applyOutcome(attempt, in.IsCorrect, in.CompletedAt != nil); err != nil {
			return err
		}
		if err := s.attempts.Save(ctx, attempt); err != nil {
			return err
		}
		saved, created = attempt, isNew
		return nil
	})
	if err != nil {
		return nil, s.reject("save_attempt", err)
	}

	s.attemptSaved(ctx, saved, created, in.CompletedAt != nil)
	return saved, nil
}

// findOrStartAttempt loads the attempt for (player, quizz) or builds a fresh one in memory.
// A non-empty attemptID must match the stored attempt and becomes the ID of a fresh one.
func (s *TakerService) findOrStartAttempt(ctx context.Context, quizzID, playerID, attemptID string) (*domain.Attempt, bool, error) {
	attempt, err := s.attempts.FindByPlayerIDAndQuizzID(ctx, playerID, quizzID)
	if err != nil {
		return nil, false, err
	}
	if attempt != nil {
		if attemptID != "" && attempt.ID() != attemptID {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrAttemptNotFound, attemptID)
		}
		return attempt, false, nil
	}

	attempt, err = domain.NewAttempt(domain.AttemptProps{
		ID:        attemptID,
		QuizzID:   quizzID,
		PlayerID:  playerID,
		StartedAt: s.now(),
	})
	if err != nil {
		return nil, false, err
	}
	return attempt, true, nil
}

func (s *TakerService) applyOutcome(attempt *domain.Attempt, isCorrect *bool, complete bool) error {
	if isCorrect != nil {
		if *isCorrect {
			if err := attempt.IncrementScore(); err != nil {
				return err
			}
		}
		if err := attempt.IncrementTotalQuestionsAnswered(); err != nil {
			return err
		}
	}
	if complete {
		return attempt.Complete(s.now())
	}
	return nil
}

func (s *TakerService) attemptSaved(ctx context.Context, attempt *domain.Attempt, created, completed bool) {
	if created {
		s.metrics.AttemptsStarted.Inc()
	}
	if completed {
		s.metrics.AttemptsCompleted.Inc()
		s.log.Info("attempt completed",
			zap.String("attempt_id", attempt.ID()),
			zap.String("quizz_id", attempt.QuizzID()),
			zap.Int("score", attempt.Score()),
			zap.Int("total_questions_answered", attempt.TotalQuestionsAnswered()),
		)
	}
	s.publishScore(ctx, attempt)
}

func validateAttemptKey(quizzID, playerID string) error {
	if err := domain.ValidateID("quizzId", quizzID); err != nil {
		return err
	}
	return domain.ValidateID("playerId", playerID)
}
