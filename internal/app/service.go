package app

import (
	"context"
	"errors"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/MonsieurBarti/quizz-webapp/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PlayerRepository stores players. FindByEmail returns (nil, nil) when absent.
// Save returns domain.ErrPlayerEmailTaken when another player owns the email.
type PlayerRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Player, error)
	Save(ctx context.Context, player *domain.Player) error
}

// AttemptRepository stores attempts, one per (player, quizz).
// Save inserts or updates by ID and fails with domain.ErrAttemptConflict when the stored
// version no longer matches the aggregate's version.
type AttemptRepository interface {
	FindByPlayerIDAndQuizzID(ctx context.Context, playerID, quizzID string) (*domain.Attempt, error)
	Save(ctx context.Context, attempt *domain.Attempt) error
}

// ResponseRepository stores responses. Save fails with domain.ErrDuplicateResponse when the
// question already has a response within the attempt.
type ResponseRepository interface {
	FindByQuestionIDAndAttemptID(ctx context.Context, questionID, attemptID string) (*domain.Response, error)
	Save(ctx context.Context, response *domain.Response) error
}

// AnswerReader gives read-only access to answer correctness. FindByID returns (nil, nil) when absent.
type AnswerReader interface {
	FindByID(ctx context.Context, answerID string) (*domain.Answer, error)
}

// QuestionReader walks a quizz's questions by order. An empty afterQuestionID asks for the first
// question; (nil, nil) means there is none. Unknown afterQuestionID yields domain.ErrQuestionNotFound.
type QuestionReader interface {
	FindNext(ctx context.Context, quizzID, afterQuestionID string) (*domain.Question, error)
}

// QuizzReader finds playable quizzes. FindPublishedByID returns (nil, nil) for unknown or
// unpublished quizzes.
type QuizzReader interface {
	FindPublishedByID(ctx context.Context, quizzID string) (*domain.Quizz, error)
}

// LeaderboardStore keeps the best-known score per player and quizz.
type LeaderboardStore interface {
	Upsert(ctx context.Context, quizzID string, entry domain.LeaderboardEntry) error
	Top(ctx context.Context, quizzID string, limit int) ([]domain.LeaderboardEntry, error)
}

// Transactor runs fn as one unit of work. Repositories called with the ctx passed to fn take
// part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dependencies are the collaborators of TakerService. Logger, Metrics, Tx and Leaderboard are optional.
type Dependencies struct {
	Players     PlayerRepository
	Attempts    AttemptRepository
	Responses   ResponseRepository
	Answers     AnswerReader
	Questions   QuestionReader
	Quizzes     QuizzReader
	Leaderboard LeaderboardStore
	Tx          Transactor

	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	LeaderboardSize int
}

// TakerService contains the quizz-taking use cases.
type TakerService struct {
	players     PlayerRepository
	attempts    AttemptRepository
	responses   ResponseRepository
	answers     AnswerReader
	questions   QuestionReader
	quizzes     QuizzReader
	leaderboard LeaderboardStore
	tx          Transactor
	hub         *leaderboardHub

	log       *zap.Logger
	metrics   *metrics.Metrics
	boardSize int
	now       func() time.Time
}

func NewTakerService(deps Dependencies) *TakerService {
	return NewTakerServiceWithClock(deps, time.Now)
}

// NewTakerServiceWithClock allows deterministic timestamps in tests.
func NewTakerServiceWithClock(deps Dependencies, now func() time.Time) *TakerService {
	s := &TakerService{
		players:     deps.Players,
		attempts:    deps.Attempts,
		responses:   deps.Responses,
		answers:     deps.Answers,
		questions:   deps.Questions,
		quizzes:     deps.Quizzes,
		leaderboard: deps.Leaderboard,
		tx:          deps.Tx,
		hub:         newLeaderboardHub(),
		log:         deps.Logger,
		metrics:     deps.Metrics,
		boardSize:   deps.LeaderboardSize,
		now:         now,
	}
	if s.tx == nil {
		s.tx = noTx{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.boardSize <= 0 {
		s.boardSize = 10
	}
	return s
}

type noTx struct{}

func (noTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// reject counts and logs a failed operation, then returns err unchanged.
func (s *TakerService) reject(operation string, err error) error {
	reason := rejectReason(err)
	s.metrics.Rejected(operation, reason)
	if reason == "internal" {
		s.log.Error("command failed", zap.String("operation", operation), zap.Error(err))
	} else {
		s.log.Info("command rejected", zap.String("operation", operation), zap.String("reason", reason), zap.Error(err))
	}
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrAnswerNotFound):
		return "answer_not_found"
	case errors.Is(err, domain.ErrQuizzNotFound):
		return "quizz_not_found"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return "question_not_found"
	case errors.Is(err, domain.ErrAttemptNotFound):
		return "attempt_not_found"
	case errors.Is(err, domain.ErrAttemptAlreadyCompleted):
		return "attempt_completed"
	case errors.Is(err, domain.ErrAttemptConflict):
		return "attempt_conflict"
	case errors.Is(err, domain.ErrDuplicateResponse):
		return "duplicate_response"
	default:
		return "internal"
	}
}
