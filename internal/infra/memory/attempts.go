package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// AttemptRepository is an in-memory implementation of app.AttemptRepository.
type AttemptRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.AttemptProps
	byKey map[attemptKey]string
}

type attemptKey struct {
	playerID string
	quizzID  string
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{
		byID:  make(map[string]domain.AttemptProps),
		byKey: make(map[attemptKey]string),
	}
}

func (r *AttemptRepository) FindByPlayerIDAndQuizzID(_ context.Context, playerID, quizzID string) (*domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[attemptKey{playerID: playerID, quizzID: quizzID}]
	if !ok {
		return nil, nil
	}
	return domain.NewAttempt(r.byID[id])
}

// Save stores the attempt when its version matches the stored one, then bumps the version.
func (r *AttemptRepository) Save(_ context.Context, attempt *domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	props := attempt.Props()
	key := attemptKey{playerID: props.PlayerID, quizzID: props.QuizzID}
	stored, exists := r.byID[props.ID]
	switch {
	case exists && stored.Version != props.Version:
		return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, props.ID)
	case !exists && props.Version != 0:
		return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, props.ID)
	case !exists:
		if owner, ok := r.byKey[key]; ok && owner != props.ID {
			return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, props.ID)
		}
	}

	props.Version++
	r.byID[props.ID] = props
	r.byKey[key] = props.ID
	attempt.MarkSaved()
	return nil
}
