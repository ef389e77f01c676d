package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/MonsieurBarti/quizz-webapp/internal/infra/memory"
)

func TestSavePlayerIsIdempotentByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.service.SavePlayer(ctx, app.SavePlayerInput{Email: "alice@example.com", Name: "Alice"})
	if err != nil {
		t.Fatalf("save player: %v", err)
	}
	if alice.Email() != "alice@example.com" || alice.Name() != "Alice" {
		t.Fatalf("unexpected player %q %q", alice.Email(), alice.Name())
	}

	again, err := f.service.SavePlayer(ctx, app.SavePlayerInput{Email: "alice@example.com", Name: "Alicia"})
	if err != nil {
		t.Fatalf("save player again: %v", err)
	}
	if again.ID() != alice.ID() || again.Name() != "Alice" {
		t.Fatalf("expected original player, got %s %q", again.ID(), again.Name())
	}
}

func TestSavePlayerDefaultsName(t *testing.T) {
	f := newFixture(t)

	player, err := f.service.SavePlayer(context.Background(), app.SavePlayerInput{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("save player: %v", err)
	}
	if player.Name() != domain.UnknownPlayerName {
		t.Fatalf("expected default name, got %q", player.Name())
	}
}

func TestSavePlayerRejectsInvalidEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SavePlayer(context.Background(), app.SavePlayerInput{Email: "not-an-email"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSavePlayerReturnsWinnerOfConcurrentRegistration(t *testing.T) {
	repo := &racingPlayers{PlayerRepository: memory.NewPlayerRepository()}
	service := app.NewTakerService(app.Dependencies{Players: repo})
	ctx := context.Background()

	winner, _ := domain.NewPlayer(domain.PlayerProps{Email: "race@example.com", Name: "Winner"})
	if err := repo.Save(ctx, winner); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	player, err := service.SavePlayer(ctx, app.SavePlayerInput{Email: "race@example.com", Name: "Loser"})
	if err != nil {
		t.Fatalf("save player: %v", err)
	}
	if player.ID() != winner.ID() || player.Name() != "Winner" {
		t.Fatalf("expected winner, got %s %q", player.ID(), player.Name())
	}
	if repo.lookups != 2 {
		t.Fatalf("expected lookup retry, got %d lookups", repo.lookups)
	}
}

// racingPlayers misses the first lookup, as if the winner inserted right after it.
type racingPlayers struct {
	*memory.PlayerRepository
	lookups int
}

func (r *racingPlayers) FindByEmail(ctx context.Context, email string) (*domain.Player, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, nil
	}
	return r.PlayerRepository.FindByEmail(ctx, email)
}
