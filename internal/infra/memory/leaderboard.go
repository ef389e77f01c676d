package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// Leaderboard is an in-memory implementation of app.LeaderboardStore.
type Leaderboard struct {
	mu     sync.RWMutex
	scores map[string]map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{scores: make(map[string]map[string]int)}
}

func (l *Leaderboard) Upsert(_ context.Context, quizzID string, entry domain.LeaderboardEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	board, ok := l.scores[quizzID]
	if !ok {
		board = make(map[string]int)
		l.scores[quizzID] = board
	}
	board[entry.PlayerID] = entry.Score
	return nil
}

// Top orders by score descending, then player ID ascending.
func (l *Leaderboard) Top(_ context.Context, quizzID string, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	board := l.scores[quizzID]
	entries := make([]domain.LeaderboardEntry, 0, len(board))
	for playerID, score := range board {
		entries = append(entries, domain.LeaderboardEntry{PlayerID: playerID, Score: score})
	}
	l.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
