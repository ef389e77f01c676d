package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Catalog reads authored quizz content. It is the AnswerLoader behind the answer caches and
// serves next-question and published-quizz lookups.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) LoadAnswer(ctx context.Context, answerID string) (*domain.Answer, error) {
	var answer domain.Answer
	err := c.pool.QueryRow(ctx, `SELECT id::text, is_correct FROM answer WHERE id = $1`, answerID).
		Scan(&answer.ID, &answer.IsCorrect)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load answer: %w", err)
	}
	return &answer, nil
}

func (c *Catalog) FindPublishedByID(ctx context.Context, quizzID string) (*domain.Quizz, error) {
	var quizz domain.Quizz
	err := c.pool.QueryRow(ctx, `
		SELECT id::text, title, description, is_published, created_by::text
		FROM quizz
		WHERE id = $1 AND is_published`, quizzID).
		Scan(&quizz.ID, &quizz.Title, &quizz.Description, &quizz.IsPublished, &quizz.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find quizz: %w", err)
	}
	return &quizz, nil
}

func (c *Catalog) FindNext(ctx context.Context, quizzID, afterQuestionID string) (*domain.Question, error) {
	const columns = `id::text, quizz_id::text, text, "order", image_url`

	var row pgx.Row
	if afterQuestionID == "" {
		row = c.pool.QueryRow(ctx, `
			SELECT `+columns+`
			FROM question
			WHERE quizz_id = $1
			ORDER BY "order", id
			LIMIT 1`, quizzID)
	} else {
		var order int
		err := c.pool.QueryRow(ctx, `SELECT "order" FROM question WHERE id = $1 AND quizz_id = $2`,
			afterQuestionID, quizzID).Scan(&order)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, afterQuestionID)
		}
		if err != nil {
			return nil, fmt.Errorf("find current question: %w", err)
		}
		row = c.pool.QueryRow(ctx, `
			SELECT `+columns+`
			FROM question
			WHERE quizz_id = $1 AND ("order", id) > ($2, $3::uuid)
			ORDER BY "order", id
			LIMIT 1`, quizzID, order, afterQuestionID)
	}

	var question domain.Question
	err := row.Scan(&question.ID, &question.QuizzID, &question.Text, &question.Order, &question.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find next question: %w", err)
	}

	choices, err := c.choices(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.Choices = choices
	return &question, nil
}

func (c *Catalog) choices(ctx context.Context, questionID string) ([]domain.Choice, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT id::text, text
		FROM answer
		WHERE question_id = $1
		ORDER BY "order", id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("load choices: %w", err)
	}
	defer rows.Close()

	choices := []domain.Choice{}
	for rows.Next() {
		var choice domain.Choice
		if err := rows.Scan(&choice.ID, &choice.Text); err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		choices = append(choices, choice)
	}
	return choices, rows.Err()
}
