package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// PlayerRepository is an in-memory implementation of app.PlayerRepository.
type PlayerRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.PlayerProps
	byEmail map[string]string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:    make(map[string]domain.PlayerProps),
		byEmail: make(map[string]string),
	}
}

func (r *PlayerRepository) FindByEmail(_ context.Context, email string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return domain.NewPlayer(r.byID[id])
}

func (r *PlayerRepository) Save(_ context.Context, player *domain.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.byEmail[player.Email()]; ok && owner != player.ID() {
		return fmt.Errorf("%w: %s", domain.ErrPlayerEmailTaken, player.Email())
	}
	if previous, ok := r.byID[player.ID()]; ok && previous.Email != player.Email() {
		delete(r.byEmail, previous.Email)
	}
	r.byID[player.ID()] = domain.PlayerProps{ID: player.ID(), Email: player.Email(), Name: player.Name()}
	r.byEmail[player.Email()] = player.ID()
	return nil
}
