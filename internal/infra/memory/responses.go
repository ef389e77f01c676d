package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// ResponseRepository is an in-memory implementation of app.ResponseRepository.
type ResponseRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.ResponseProps
	byKey map[responseKey]string
}

type responseKey struct {
	attemptID  string
	questionID string
}

func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{
		byID:  make(map[string]domain.ResponseProps),
		byKey: make(map[responseKey]string),
	}
}

func (r *ResponseRepository) FindByQuestionIDAndAttemptID(_ context.Context, questionID, attemptID string) (*domain.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[responseKey{attemptID: attemptID, questionID: questionID}]
	if !ok {
		return nil, nil
	}
	return domain.NewResponse(r.byID[id])
}

func (r *ResponseRepository) Save(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	props := response.Props()
	key := responseKey{attemptID: props.AttemptID, questionID: props.QuestionID}
	if owner, ok := r.byKey[key]; ok && owner != props.ID {
		return fmt.Errorf("%w: question %s", domain.ErrDuplicateResponse, props.QuestionID)
	}
	r.byID[props.ID] = props
	r.byKey[key] = props.ID
	return nil
}

// Count returns the number of stored responses.
func (r *ResponseRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
