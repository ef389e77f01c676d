package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/google/uuid"
)

func TestPlayerRepositoryEnforcesUniqueEmail(t *testing.T) {
	repo := NewPlayerRepository()
	ctx := context.Background()

	first, _ := domain.NewPlayer(domain.PlayerProps{Email: "a@x.io"})
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, _ := domain.NewPlayer(domain.PlayerProps{Email: "a@x.io"})
	if err := repo.Save(ctx, second); !errors.Is(err, domain.ErrPlayerEmailTaken) {
		t.Fatalf("expected ErrPlayerEmailTaken, got %v", err)
	}

	found, err := repo.FindByEmail(ctx, "a@x.io")
	if err != nil || found == nil || found.ID() != first.ID() {
		t.Fatalf("expected first player, got %+v, %v", found, err)
	}
	missing, err := repo.FindByEmail(ctx, "b@x.io")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got %+v, %v", missing, err)
	}
}

func TestAttemptRepositoryDetectsStaleVersion(t *testing.T) {
	repo := NewAttemptRepository()
	ctx := context.Background()
	playerID, quizzID := uuid.NewString(), uuid.NewString()

	attempt, err := domain.NewAttempt(domain.AttemptProps{QuizzID: quizzID, PlayerID: playerID, StartedAt: time.Now()})
	if err != nil {
		t.Fatalf("new attempt: %v", err)
	}
	if err := repo.Save(ctx, attempt); err != nil {
		t.Fatalf("save: %v", err)
	}
	if attempt.Version() != 1 {
		t.Fatalf("expected version 1, got %d", attempt.Version())
	}

	a, _ := repo.FindByPlayerIDAndQuizzID(ctx, playerID, quizzID)
	b, _ := repo.FindByPlayerIDAndQuizzID(ctx, playerID, quizzID)
	_ = a.IncrementTotalQuestionsAnswered()
	_ = b.IncrementTotalQuestionsAnswered()
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := repo.Save(ctx, b); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("expected ErrAttemptConflict, got %v", err)
	}

	stored, _ := repo.FindByPlayerIDAndQuizzID(ctx, playerID, quizzID)
	if stored.TotalQuestionsAnswered() != 1 || stored.Version() != 2 {
		t.Fatalf("expected 1 answer at version 2, got %d at %d", stored.TotalQuestionsAnswered(), stored.Version())
	}
}

func TestAttemptRepositoryRejectsSecondAttemptForPair(t *testing.T) {
	repo := NewAttemptRepository()
	ctx := context.Background()
	props := domain.AttemptProps{QuizzID: uuid.NewString(), PlayerID: uuid.NewString(), StartedAt: time.Now()}

	first, _ := domain.NewAttempt(props)
	second, _ := domain.NewAttempt(props)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("expected ErrAttemptConflict, got %v", err)
	}
}

func TestResponseRepositoryRejectsDuplicateQuestion(t *testing.T) {
	repo := NewResponseRepository()
	ctx := context.Background()
	props := domain.ResponseProps{
		AttemptID:   uuid.NewString(),
		QuestionID:  uuid.NewString(),
		AnswerID:    uuid.NewString(),
		RespondedAt: time.Now(),
	}

	first, _ := domain.NewResponse(props)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("re-save same response: %v", err)
	}
	second, _ := domain.NewResponse(props)
	if err := repo.Save(ctx, second); !errors.Is(err, domain.ErrDuplicateResponse) {
		t.Fatalf("expected ErrDuplicateResponse, got %v", err)
	}

	found, err := repo.FindByQuestionIDAndAttemptID(ctx, props.QuestionID, props.AttemptID)
	if err != nil || found == nil || found.ID() != first.ID() {
		t.Fatalf("expected first response, got %+v, %v", found, err)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 response, got %d", repo.Count())
	}
}

func TestLeaderboardOrdersByScoreThenPlayer(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()
	quizzID := uuid.NewString()

	_ = board.Upsert(ctx, quizzID, domain.LeaderboardEntry{PlayerID: "b", Score: 2})
	_ = board.Upsert(ctx, quizzID, domain.LeaderboardEntry{PlayerID: "a", Score: 2})
	_ = board.Upsert(ctx, quizzID, domain.LeaderboardEntry{PlayerID: "c", Score: 1})
	_ = board.Upsert(ctx, quizzID, domain.LeaderboardEntry{PlayerID: "c", Score: 3})

	entries, err := board.Top(ctx, quizzID, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(entries) != 2 || entries[0].PlayerID != "c" || entries[1].PlayerID != "a" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
