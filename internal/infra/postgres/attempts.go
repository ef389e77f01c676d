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

type attemptRow struct {
	bun.BaseModel `bun:"table:attempt"`

	ID                     string     `bun:"id,pk,type:uuid"`
	QuizzID                string     `bun:"quizz_id,type:uuid,notnull"`
	PlayerID               string     `bun:"player_id,type:uuid,notnull"`
	StartedAt              time.Time  `bun:"started_at,notnull"`
	CompletedAt            *time.Time `bun:"completed_at"`
	Score                  int        `bun:"score,notnull"`
	TotalQuestionsAnswered int        `bun:"total_questions_answered,notnull"`
	Version                int        `bun:"version,notnull"`
}

// AttemptRepository persists attempts with bun, guarding updates with the version column.
type AttemptRepository struct {
	db *bun.DB
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// FindByPlayerIDAndQuizzID locks the row when called inside a transaction.
func (r *AttemptRepository) FindByPlayerIDAndQuizzID(ctx context.Context, playerID, quizzID string) (*domain.Attempt, error) {
	var row attemptRow
	q := conn(ctx, r.db).NewSelect().
		Model(&row).
		Where("player_id = ?", playerID).
		Where("quizz_id = ?", quizzID).
		Limit(1)
	if inTx(ctx) {
		q = q.For("UPDATE")
	}
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attempt: %w", err)
	}
	return domain.NewAttempt(domain.AttemptProps{
		ID:                     row.ID,
		QuizzID:                row.QuizzID,
		PlayerID:               row.PlayerID,
		StartedAt:              row.StartedAt,
		CompletedAt:            row.CompletedAt,
		Score:                  row.Score,
		TotalQuestionsAnswered: row.TotalQuestionsAnswered,
		Version:                row.Version,
	})
}

func (r *AttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	props := attempt.Props()
	row := attemptRow{
		ID:                     props.ID,
		QuizzID:                props.QuizzID,
		PlayerID:               props.PlayerID,
		StartedAt:              props.StartedAt,
		CompletedAt:            props.CompletedAt,
		Score:                  props.Score,
		TotalQuestionsAnswered: props.TotalQuestionsAnswered,
		Version:                props.Version + 1,
	}

	if props.Version == 0 {
		// rows written before the version column exist at version 0 and fall through to the update
		res, err := conn(ctx, r.db).NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, props.ID)
		}
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		if inserted, err := res.RowsAffected(); err == nil && inserted == 1 {
			attempt.MarkSaved()
			return nil
		}
	}

	res, err := conn(ctx, r.db).NewUpdate().
		Model(&row).
		Column("completed_at", "score", "total_questions_answered", "version").
		Where("id = ?", props.ID).
		Where("version = ?", props.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAttemptConflict, props.ID)
	}
	attempt.MarkSaved()
	return nil
}
