package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// AnswerLoader fetches answer correctness from a backing store. (nil, nil) means unknown.
type AnswerLoader interface {
	LoadAnswer(ctx context.Context, answerID string) (*domain.Answer, error)
}

// AnswerReader caches answer correctness in Redis and falls back to a loader on cache miss.
// Correctness is stored as: SET answer:{answerID}:correct 1|0 EX ttl
// Unknown answers are not cached.
type AnswerReader struct {
	client *redis.Client
	loader AnswerLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewAnswerReader(client *redis.Client, loader AnswerLoader, ttl time.Duration) *AnswerReader {
	return &AnswerReader{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *AnswerReader) FindByID(ctx context.Context, answerID string) (*domain.Answer, error) {
	if answer, ok := r.cached(ctx, answerID); ok {
		return answer, nil
	}

	result, err, _ := r.sf.Do(answerID, func() (interface{}, error) {
		// another caller may have filled the key meanwhile
		if answer, ok := r.cached(ctx, answerID); ok {
			return answer, nil
		}
		answer, err := r.loader.LoadAnswer(ctx, answerID)
		if err != nil || answer == nil {
			return answer, err
		}
		value := "0"
		if answer.IsCorrect {
			value = "1"
		}
		// a failed write only costs a reload on the next lookup
		_ = r.client.Set(ctx, answerKey(answerID), value, r.ttlWithJitter()).Err()
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

// cached treats Redis failures as misses so the loader stays authoritative.
func (r *AnswerReader) cached(ctx context.Context, answerID string) (*domain.Answer, bool) {
	value, err := r.client.Get(ctx, answerKey(answerID)).Result()
	if err != nil {
		return nil, false
	}
	switch value {
	case "1":
		return &domain.Answer{ID: answerID, IsCorrect: true}, true
	case "0":
		return &domain.Answer{ID: answerID, IsCorrect: false}, true
	default:
		return nil, false
	}
}

// Invalidate drops the cached correctness of an answer, e.g. after an authoring edit.
func (r *AnswerReader) Invalidate(ctx context.Context, answerID string) error {
	if err := r.client.Del(ctx, answerKey(answerID)).Err(); err != nil {
		return fmt.Errorf("invalidate answer %s: %w", answerID, err)
	}
	return nil
}

func answerKey(answerID string) string {
	return "answer:" + answerID + ":correct"
}

func (r *AnswerReader) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
