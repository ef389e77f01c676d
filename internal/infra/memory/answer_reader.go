package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"golang.org/x/sync/singleflight"
)

// AnswerLoader fetches answer correctness from a backing store. (nil, nil) means unknown.
type AnswerLoader interface {
	LoadAnswer(ctx context.Context, answerID string) (*domain.Answer, error)
}

// AnswerReader caches answers with a TTL to avoid repeated catalog hits.
// Unknown answers are not cached.
type AnswerReader struct {
	loader AnswerLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedAnswer
}

type cachedAnswer struct {
	answer    domain.Answer
	expiresAt time.Time
}

func NewAnswerReader(loader AnswerLoader, ttl time.Duration) *AnswerReader {
	return &AnswerReader{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedAnswer),
	}
}

func (r *AnswerReader) FindByID(ctx context.Context, answerID string) (*domain.Answer, error) {
	if answer, ok := r.cached(answerID); ok {
		return &answer, nil
	}

	result, err, _ := r.sf.Do(answerID, func() (interface{}, error) {
		if answer, ok := r.cached(answerID); ok {
			return &answer, nil
		}
		answer, err := r.loader.LoadAnswer(ctx, answerID)
		if err != nil || answer == nil {
			return answer, err
		}

		r.mu.Lock()
		r.cache[answerID] = cachedAnswer{
			answer:    *answer,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return answer, nil
	})
	if err != nil {
		return nil, err
	}
	answer := result.(*domain.Answer)
	if answer == nil {
		return nil, nil
	}
	copied := *answer
	return &copied, nil
}

func (r *AnswerReader) cached(answerID string) (domain.Answer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[answerID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Answer{}, false
	}
	return entry.answer, true
}

func (r *AnswerReader) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter spreads expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
