package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type CardDefinitionStore struct {
	db *pgxpool.Pool
}

func NewCardDefinitionStore(db *pgxpool.Pool) *CardDefinitionStore {
	return &CardDefinitionStore{db: db}
}

// ListCardPool returns the first `limit` card definitions in seed order.
// This is the shared pool every player's deck is composed from.
func (s *CardDefinitionStore) ListCardPool(ctx context.Context, limit int) ([]*models.CardDefinition, error) {
	query := `
		SELECT id, card_name, base_power, created_at, updated_at
		FROM card_definitions
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list card pool: %w", err)
	}
	defer rows.Close()

	var defs []*models.CardDefinition
	for rows.Next() {
		var cd models.CardDefinition
		err := rows.Scan(
			&cd.ID,
			&cd.CardName,
			&cd.BasePower,
			&cd.CreatedAt,
			&cd.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		defs = append(defs, &cd)
	}

	return defs, rows.Err()
}

// InsertCardDefinition seeds one card. Duplicate names are ignored so the
// seeder can be re-run.
func (s *CardDefinitionStore) InsertCardDefinition(ctx context.Context, cardName string, basePower int) error {
	query := `
		INSERT INTO card_definitions (id, card_name, base_power)
		VALUES ($1, $2, $3)
		ON CONFLICT (card_name) DO NOTHING
	`

	_, err := s.db.Exec(ctx, query, uuid.New().String(), cardName, basePower)
	if err != nil {
		return fmt.Errorf("failed to insert card definition %q: %w", cardName, err)
	}

	return nil
}
