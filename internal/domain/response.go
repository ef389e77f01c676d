package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResponseProps carries the fields needed to build or restore a Response.
type ResponseProps struct {
	ID          string
	AttemptID   string
	QuestionID  string
	AnswerID    string
	IsCorrect   bool
	TimeTakenMs int
	RespondedAt time.Time
}

// Response records that an attempt answered a question. It never changes once built;
// IsCorrect is the answer's correctness when the response was recorded.
type Response struct {
	id          string
	attemptID   string
	questionID  string
	answerID    string
	isCorrect   bool
	timeTakenMs int
	respondedAt time.Time
}

// NewResponse validates props and builds a Response, generating an ID when none is given.
func NewResponse(props ResponseProps) (*Response, error) {
	if props.ID == "" {
		props.ID = uuid.NewString()
	} else if err := ValidateID("id", props.ID); err != nil {
		return nil, err
	}
	if err := ValidateID("attemptId", props.AttemptID); err != nil {
		return nil, err
	}
	if err := ValidateID("questionId", props.QuestionID); err != nil {
		return nil, err
	}
	if err := ValidateID("answerId", props.AnswerID); err != nil {
		return nil, err
	}
	if err := ValidateTimeTaken(props.TimeTakenMs); err != nil {
		return nil, err
	}
	return &Response{
		id:          props.ID,
		attemptID:   props.AttemptID,
		questionID:  props.QuestionID,
		answerID:    props.AnswerID,
		isCorrect:   props.IsCorrect,
		timeTakenMs: props.TimeTakenMs,
		respondedAt: props.RespondedAt,
	}, nil
}

func (r *Response) ID() string             { return r.id }
func (r *Response) AttemptID() string      { return r.attemptID }
func (r *Response) QuestionID() string     { return r.questionID }
func (r *Response) AnswerID() string       { return r.answerID }
func (r *Response) IsCorrect() bool        { return r.isCorrect }
func (r *Response) TimeTakenMs() int       { return r.timeTakenMs }
func (r *Response) RespondedAt() time.Time { return r.respondedAt }

// Props snapshots the response for persistence.
func (r *Response) Props() ResponseProps {
	return ResponseProps{
		ID:          r.id,
		AttemptID:   r.attemptID,
		QuestionID:  r.questionID,
		AnswerID:    r.answerID,
		IsCorrect:   r.isCorrect,
		TimeTakenMs: r.timeTakenMs,
		RespondedAt: r.respondedAt,
	}
}
