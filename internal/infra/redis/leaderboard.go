package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Leaderboard keeps per-quizz scores in a sorted set: ZADD quizz:{quizzID}:leaderboard score playerID.
// The key expires ttl after the last update; a zero ttl keeps it forever.
type Leaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboard(client *redis.Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{client: client, ttl: ttl}
}

func (l *Leaderboard) Upsert(ctx context.Context, quizzID string, entry domain.LeaderboardEntry) error {
	key := leaderboardKey(quizzID)
	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(entry.Score), Member: entry.PlayerID})
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard upsert: %w", err)
	}
	return nil
}

// Top returns the best scores first. Ties within the page are ordered by player ID.
func (l *Leaderboard) Top(ctx context.Context, quizzID string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	scores, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey(quizzID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(scores))
	for _, z := range scores {
		playerID, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{PlayerID: playerID, Score: int(z.Score)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	return entries, nil
}

func leaderboardKey(quizzID string) string {
	return "quizz:" + quizzID + ":leaderboard"
}
