package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/google/uuid"
)

func TestSaveAttemptUpsertFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playerID := uuid.NewString()

	first, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(true)})
	if err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if first.Score() != 1 || first.TotalQuestionsAnswered() != 1 || first.IsCompleted() {
		t.Fatalf("expected 1/1 in progress, got %d/%d completed=%v", first.Score(), first.TotalQuestionsAnswered(), first.IsCompleted())
	}

	second, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(false)})
	if err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if second.ID() != first.ID() {
		t.Fatalf("expected same attempt, got %s and %s", first.ID(), second.ID())
	}
	if second.Score() != 1 || second.TotalQuestionsAnswered() != 2 {
		t.Fatalf("expected 1/2, got %d/%d", second.Score(), second.TotalQuestionsAnswered())
	}

	completedAt := fixedNow
	third, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{
		QuizzID:     f.quizzID,
		PlayerID:    playerID,
		IsCorrect:   boolPtr(true),
		CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("final answer: %v", err)
	}
	if third.Score() != 2 || third.TotalQuestionsAnswered() != 3 {
		t.Fatalf("expected final answer counted as 2/3, got %d/%d", third.Score(), third.TotalQuestionsAnswered())
	}
	if !third.IsCompleted() || !third.CompletedAt().Equal(fixedNow) {
		t.Fatalf("expected completed at %v, got %v", fixedNow, third.CompletedAt())
	}
	if third.Version() != 3 {
		t.Fatalf("expected version 3 after three saves, got %d", third.Version())
	}
}

func TestSaveAttemptStartAndCompletionOnlyCallsCountNoAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playerID := uuid.NewString()

	started, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Score() != 0 || started.TotalQuestionsAnswered() != 0 || !started.StartedAt().Equal(fixedNow) {
		t.Fatalf("unexpected started attempt %+v", started.Props())
	}

	completedAt := fixedNow
	completed, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, CompletedAt: &completedAt})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.TotalQuestionsAnswered() != 0 || !completed.IsCompleted() {
		t.Fatalf("expected completion without counting, got %+v", completed.Props())
	}
}

func TestSaveAttemptRejectsCompletedAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playerID := uuid.NewString()
	completedAt := fixedNow

	if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, CompletedAt: &completedAt}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	cases := []app.SaveAttemptInput{
		{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(true)},
		{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(false)},
		{QuizzID: f.quizzID, PlayerID: playerID, CompletedAt: &completedAt},
	}
	for _, in := range cases {
		if _, err := f.service.SaveAttempt(ctx, in); !errors.Is(err, domain.ErrAttemptAlreadyCompleted) {
			t.Fatalf("expected ErrAttemptAlreadyCompleted, got %v", err)
		}
	}

	stored, _ := f.attempts.FindByPlayerIDAndQuizzID(ctx, playerID, f.quizzID)
	if stored.Version() != 1 {
		t.Fatalf("expected rejected calls to leave version 1, got %d", stored.Version())
	}
}

func TestSaveAttemptKeepsOneAttemptPerPlayerAndQuizz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playerID := uuid.NewString()
	otherQuizz := uuid.NewString()

	a, _ := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID})
	b, _ := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: otherQuizz, PlayerID: playerID})
	if a == nil || b == nil || a.ID() == b.ID() {
		t.Fatalf("expected distinct attempts per quizz")
	}
}
