package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptProps carries the fields needed to build or restore an Attempt.
// Version is the persisted revision; zero means never saved.
type AttemptProps struct {
	ID                     string
	QuizzID                string
	PlayerID               string
	StartedAt              time.Time
	CompletedAt            *time.Time
	Score                  int
	TotalQuestionsAnswered int
	Version                int
}

// Attempt is one player's play-through of one quizz.
//
// An attempt is in progress while completedAt is nil and completed once it is set.
// Every mutation of a completed attempt fails with ErrAttemptAlreadyCompleted.
type Attempt struct {
	id                     string
	quizzID                string
	playerID               string
	startedAt              time.Time
	completedAt            *time.Time
	score                  int
	totalQuestionsAnswered int
	version                int
}

// NewAttempt validates props and builds an Attempt, generating an ID when none is given.
func NewAttempt(props AttemptProps) (*Attempt, error) {
	if props.ID == "" {
		props.ID = uuid.NewString()
	} else if err := ValidateID("id", props.ID); err != nil {
		return nil, err
	}
	if err := ValidateID("quizzId", props.QuizzID); err != nil {
		return nil, err
	}
	if err := ValidateID("playerId", props.PlayerID); err != nil {
		return nil, err
	}
	if props.StartedAt.IsZero() {
		return nil, invalid("startedAt", "is required")
	}
	if props.Score < 0 {
		return nil, invalid("score", "must be non-negative")
	}
	if props.TotalQuestionsAnswered < 0 {
		return nil, invalid("totalQuestionsAnswered", "must be non-negative")
	}
	if props.Version < 0 {
		return nil, invalid("version", "must be non-negative")
	}

	a := &Attempt{
		id:                     props.ID,
		quizzID:                props.QuizzID,
		playerID:               props.PlayerID,
		startedAt:              props.StartedAt,
		score:                  props.Score,
		totalQuestionsAnswered: props.TotalQuestionsAnswered,
		version:                props.Version,
	}
	if props.CompletedAt != nil {
		completedAt := *props.CompletedAt
		a.completedAt = &completedAt
	}
	return a, nil
}

// IncrementScore records one more correct answer.
func (a *Attempt) IncrementScore() error {
	if a.IsCompleted() {
		return ErrAttemptAlreadyCompleted
	}
	a.score++
	return nil
}

// IncrementTotalQuestionsAnswered records one more answered question.
func (a *Attempt) IncrementTotalQuestionsAnswered() error {
	if a.IsCompleted() {
		return ErrAttemptAlreadyCompleted
	}
	a.totalQuestionsAnswered++
	return nil
}

// Complete moves the attempt to its terminal state. Calling it twice is an error.
func (a *Attempt) Complete(now time.Time) error {
	if a.IsCompleted() {
		return ErrAttemptAlreadyCompleted
	}
	a.completedAt = &now
	return nil
}

// MarkSaved is called by repositories after a successful write.
func (a *Attempt) MarkSaved() {
	a.version++
}

func (a *Attempt) ID() string                  { return a.id }
func (a *Attempt) QuizzID() string             { return a.quizzID }
func (a *Attempt) PlayerID() string            { return a.playerID }
func (a *Attempt) StartedAt() time.Time        { return a.startedAt }
func (a *Attempt) Score() int                  { return a.score }
func (a *Attempt) TotalQuestionsAnswered() int { return a.totalQuestionsAnswered }
func (a *Attempt) Version() int                { return a.version }
func (a *Attempt) IsCompleted() bool           { return a.completedAt != nil }

// CompletedAt returns a copy of the completion time, or nil while in progress.
func (a *Attempt) CompletedAt() *time.Time {
	if a.completedAt == nil {
		return nil
	}
	t := *a.completedAt
	return &t
}

// Props snapshots the attempt for persistence.
func (a *Attempt) Props() AttemptProps {
	return AttemptProps{
		ID:                     a.id,
		QuizzID:                a.quizzID,
		PlayerID:               a.playerID,
		StartedAt:              a.startedAt,
		CompletedAt:            a.CompletedAt(),
		Score:                  a.score,
		TotalQuestionsAnswered: a.totalQuestionsAnswered,
		Version:                a.version,
	}
}
