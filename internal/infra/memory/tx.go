package memory

import (
	"context"
	"sync"
)

// Transactor serializes units of work. It does not roll back: callers run every check that can
// fail before the first write, and order writes so the last one cannot fail.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
