package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/uptrace/bun"
)

type playerRow struct {
	bun.BaseModel `bun:"table:player"`

	ID    string `bun:"id,pk,type:uuid"`
	Email string `bun:"email,notnull"`
	Name  string `bun:"name,notnull"`
}

// PlayerRepository persists players with bun.
type PlayerRepository struct {
	db *bun.DB
}

func NewPlayerRepository(db *bun.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) FindByEmail(ctx context.Context, email string) (*domain.Player, error) {
	var row playerRow
	err := conn(ctx, r.db).NewSelect().Model(&row).Where("email = ?", email).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find player by email: %w", err)
	}
	return domain.NewPlayer(domain.PlayerProps{ID: row.ID, Email: row.Email, Name: row.Name})
}

func (r *PlayerRepository) Save(ctx context.Context, player *domain.Player) error {
	row := playerRow{ID: player.ID(), Email: player.Email(), Name: player.Name()}
	_, err := conn(ctx, r.db).NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("name = EXCLUDED.name").
		Exec(ctx)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrPlayerEmailTaken, player.Email())
	}
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}
