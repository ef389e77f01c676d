package app

import (
	"context"
	"errors"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"go.uber.org/zap"
)

// SavePlayerInput registers a player; Name may be empty.
type SavePlayerInput struct {
	Email string
	Name  string
}

// SavePlayer returns the player registered with the email, creating it on first use.
// An existing player is returned unchanged; the submitted name is ignored.
func (s *TakerService) SavePlayer(ctx context.Context, in SavePlayerInput) (*domain.Player, error) {
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, s.reject("save_player", err)
	}
	if err := domain.ValidateName(in.Name); err != nil {
		return nil, s.reject("save_player", err)
	}

	existing, err := s.players.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.reject("save_player", err)
	}
	if existing != nil {
		return existing, nil
	}

	player, err := domain.NewPlayer(domain.PlayerProps{Email: in.Email, Name: in.Name})
	if err != nil {
		return nil, s.reject("save_player", err)
	}
	if err := s.players.Save(ctx, player); err != nil {
		if !errors.Is(err, domain.ErrPlayerEmailTaken) {
			return nil, s.reject("save_player", err)
		}
		// A concurrent registration won; hand back its player.
		winner, findErr := s.players.FindByEmail(ctx, in.Email)
		if findErr != nil {
			return nil, s.reject("save_player", findErr)
		}
		if winner == nil {
			return nil, s.reject("save_player", err)
		}
		return winner, nil
	}

	s.metrics.PlayersRegistered.Inc()
	s.log.Info("player registered", zap.String("player_id", player.ID()))
	return player, nil
}
