package app

import (
	"context"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"go.uber.org/zap"
)

const maxLeaderboardSize = 100

// Leaderboard returns the top scores of a quizz. A non-positive limit uses the configured size.
func (s *TakerService) Leaderboard(ctx context.Context, quizzID string, limit int) (domain.Leaderboard, error) {
	board, err := s.leaderboardTop(ctx, quizzID, limit)
	if err != nil {
		return domain.Leaderboard{}, s.reject("leaderboard", err)
	}
	return board, nil
}

func (s *TakerService) leaderboardTop(ctx context.Context, quizzID string, limit int) (domain.Leaderboard, error) {
	if err := domain.ValidateID("quizzId", quizzID); err != nil {
		return domain.Leaderboard{}, err
	}
	if limit <= 0 {
		limit = s.boardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	board := domain.Leaderboard{
		QuizzID:   quizzID,
		Entries:   []domain.LeaderboardEntry{},
		UpdatedAt: s.now(),
	}
	if s.leaderboard == nil {
		return board, nil
	}
	entries, err := s.leaderboard.Top(ctx, quizzID, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if entries != nil {
		board.Entries = entries
	}
	return board, nil
}

// SubscribeLeaderboard returns a channel that first receives the current leaderboard, then every
// update caused by a saved attempt of the quizz. The caller must invoke cancel to avoid leaks.
func (s *TakerService) SubscribeLeaderboard(ctx context.Context, quizzID string) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.leaderboardTop(ctx, quizzID, 0)
	if err != nil {
		return nil, nil, s.reject("subscribe_leaderboard", err)
	}
	ch, cancel := s.hub.subscribe(quizzID, initial)
	return ch, cancel, nil
}

// publishScore is best effort: the attempt is already committed when it runs.
func (s *TakerService) publishScore(ctx context.Context, attempt *domain.Attempt) {
	if s.leaderboard == nil {
		return
	}
	entry := domain.LeaderboardEntry{PlayerID: attempt.PlayerID(), Score: attempt.Score()}
	if err := s.leaderboard.Upsert(ctx, attempt.QuizzID(), entry); err != nil {
		s.log.Warn("leaderboard update failed",
			zap.String("quizz_id", attempt.QuizzID()),
			zap.String("player_id", attempt.PlayerID()),
			zap.Error(err),
		)
		return
	}
	if !s.hub.hasSubscribers(attempt.QuizzID()) {
		return
	}
	board, err := s.leaderboardTop(ctx, attempt.QuizzID(), 0)
	if err != nil {
		s.log.Warn("leaderboard read failed", zap.String("quizz_id", attempt.QuizzID()), zap.Error(err))
		return
	}
	s.hub.broadcast(board)
}

// leaderboardHub fans leaderboard snapshots out to subscribers, keyed by quizz.
type leaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Leaderboard]struct{}
}

func newLeaderboardHub() *leaderboardHub {
	return &leaderboardHub{subscribers: make(map[string]map[chan domain.Leaderboard]struct{})}
}

func (h *leaderboardHub) subscribe(quizzID string, initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[quizzID]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.subscribers[quizzID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[quizzID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.subscribers, quizzID)
		}
	}
	return ch, cancel
}

func (h *leaderboardHub) hasSubscribers(quizzID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[quizzID]) > 0
}

// broadcast never blocks: a full subscriber loses its oldest pending snapshot.
func (h *leaderboardHub) broadcast(board domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[board.QuizzID] {
		select {
		case ch <- board:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
