package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type GameStore struct {
	db *pgxpool.Pool
}

func NewGameStore(db *pgxpool.Pool) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) CreateGame(ctx context.Context, status string) (*models.Game, error) {
	query := `
		INSERT INTO games (id, status)
		VALUES ($1, $2)
		RETURNING id, status, current_turn_player_id, turn_phase, created_at, updated_at
	`

	game := &models.Game{}
	err := s.db.QueryRow(ctx, query, uuid.New().String(), status).Scan(
		&game.ID,
		&game.Status,
		&game.CurrentTurnPlayerID,
		&game.TurnPhase,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

func (s *GameStore) GetGameByID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `
		SELECT id, status, current_turn_player_id, turn_phase, created_at, updated_at
		FROM games
		WHERE id = $1
	`

	game := &models.Game{}
	err := s.db.QueryRow(ctx, query, gameID).Scan(
		&game.ID,
		&game.Status,
		&game.CurrentTurnPlayerID,
		&game.TurnPhase,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // game not found
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	return game, nil
}

// DeleteGame removes a game row. Used as a compensating rollback when player
// creation fails after the game row was inserted.
func (s *GameStore) DeleteGame(ctx context.Context, gameID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

// UpdateGameState commits the post-initialization turn state in one statement.
func (s *GameStore) UpdateGameState(ctx context.Context, gameID, status, currentTurnPlayerID, turnPhase string) error {
	query := `
		UPDATE games
		SET status = $2, current_turn_player_id = $3, turn_phase = $4, updated_at = now()
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, gameID, status, currentTurnPlayerID, turnPhase)
	if err != nil {
		return fmt.Errorf("failed to update game state for %s: %w", gameID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no game row updated for %s", gameID)
	}

	return nil
}
