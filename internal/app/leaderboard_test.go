package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/google/uuid"
)

func TestLeaderboardRanksAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader, trailer := uuid.NewString(), uuid.NewString()

	for _, correct := range []bool{true, true} {
		if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: leader, IsCorrect: boolPtr(correct)}); err != nil {
			t.Fatalf("leader: %v", err)
		}
	}
	if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: trailer, IsCorrect: boolPtr(false)}); err != nil {
		t.Fatalf("trailer: %v", err)
	}

	board, err := f.service.Leaderboard(ctx, f.quizzID, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board.Entries) != 2 || board.Entries[0].PlayerID != leader || board.Entries[0].Score != 2 {
		t.Fatalf("unexpected leaderboard %+v", board.Entries)
	}

	top, _ := f.service.Leaderboard(ctx, f.quizzID, 1)
	if len(top.Entries) != 1 {
		t.Fatalf("expected limit to apply, got %d entries", len(top.Entries))
	}
}

func TestSubscribeLeaderboardReceivesUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ch, cancel, err := f.service.SubscribeLeaderboard(ctx, f.quizzID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	initial := <-ch
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial.Entries)
	}

	playerID := uuid.NewString()
	if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(true)}); err != nil {
		t.Fatalf("save attempt: %v", err)
	}

	select {
	case update := <-ch:
		if len(update.Entries) != 1 || update.Entries[0].PlayerID != playerID || update.Entries[0].Score != 1 {
			t.Fatalf("unexpected update %+v", update.Entries)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for leaderboard update")
	}
}

func TestSlowSubscriberOnlyKeepsRecentSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ch, cancel, err := f.service.SubscribeLeaderboard(ctx, f.quizzID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: uuid.NewString(), IsCorrect: boolPtr(true)}); err != nil {
			t.Fatalf("save attempt %d: %v", i, err)
		}
	}
	cancel()

	var last domain.Leaderboard
	received := 0
	for board := range ch {
		last = board
		received++
	}
	if received > 8 {
		t.Fatalf("expected at most 8 buffered snapshots, got %d", received)
	}
	if len(last.Entries) != 10 {
		t.Fatalf("expected latest snapshot capped at 10 entries, got %d", len(last.Entries))
	}
}

func TestLeaderboardRejectsInvalidQuizzID(t *testing.T) {
	f := newFixture(t)

	if _, _, err := f.service.SubscribeLeaderboard(context.Background(), "quiz-1"); err == nil {
		t.Fatalf("expected validation error")
	}
}
