package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/uptrace/bun"
)

type responseRow struct {
	bun.BaseModel `bun:"table:response"`

	ID          string    `bun:"id,pk,type:uuid"`
	AttemptID   string    `bun:"attempt_id,type:uuid,notnull"`
	QuestionID  string    `bun:"question_id,type:uuid,notnull"`
	AnswerID    string    `bun:"answer_id,type:uuid,notnull"`
	IsCorrect   bool      `bun:"is_correct,notnull"`
	TimeTakenMs int       `bun:"time_taken_ms,notnull"`
	RespondedAt time.Time `bun:"responded_at,notnull"`
}

// ResponseRepository persists responses with bun.
type ResponseRepository struct {
	db *bun.DB
}

func NewResponseRepository(db *bun.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

func (r *ResponseRepository) FindByQuestionIDAndAttemptID(ctx context.Context, questionID, attemptID string) (*domain.Response, error) {
	var row responseRow
	err := conn(ctx, r.db).NewSelect().
		Model(&row).
		Where("question_id = ?", questionID).
		Where("attempt_id = ?", attemptID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find response: %w", err)
	}
	return domain.NewResponse(domain.ResponseProps{
		ID:          row.ID,
		AttemptID:   row.AttemptID,
		QuestionID:  row.QuestionID,
		AnswerID:    row.AnswerID,
		IsCorrect:   row.IsCorrect,
		TimeTakenMs: row.TimeTakenMs,
		RespondedAt: row.RespondedAt,
	})
}

// Save inserts the response; saving the same ID again is a no-op.
func (r *ResponseRepository) Save(ctx context.Context, response *domain.Response) error {
	props := response.Props()
	row := responseRow{
		ID:          props.ID,
		AttemptID:   props.AttemptID,
		QuestionID:  props.QuestionID,
		AnswerID:    props.AnswerID,
		IsCorrect:   props.IsCorrect,
		TimeTakenMs: props.TimeTakenMs,
		RespondedAt: props.RespondedAt,
	}
	_, err := conn(ctx, r.db).NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: question %s", domain.ErrDuplicateResponse, props.QuestionID)
	}
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}
