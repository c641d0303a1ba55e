package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type GamePlayerStore struct {
	db *pgxpool.Pool
}

func NewGamePlayerStore(db *pgxpool.Pool) *GamePlayerStore {
	return &GamePlayerStore{db: db}
}

func (s *GamePlayerStore) GetPlayersByGameID(ctx context.Context, gameID string) ([]*models.GamePlayer, error) {
	query := `
		SELECT id, game_id, user_id, player_order, created_at, updated_at
		FROM game_players
		WHERE game_id = $1
		ORDER BY player_order ASC
	`

	rows, err := s.db.Query(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.GamePlayer
	for rows.Next() {
		var gp models.GamePlayer
		err := rows.Scan(
			&gp.ID,
			&gp.GameID,
			&gp.UserID,
			&gp.PlayerOrder,
			&gp.CreatedAt,
			&gp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, &gp)
	}

	return players, rows.Err()
}

// CreatePlayers binds both seats of a game in a single statement: the creator
// takes player_order 1 and the opponent player_order 2. A game never has any
// other seat layout.
//
// It fails with an error if:
// - Either user already holds a seat in this game (unique_game_user constraint).
// - Any foreign key (game_id, user_id) is invalid.
func (s *GamePlayerStore) CreatePlayers(ctx context.Context, gameID, creatorUserID, opponentUserID string) ([]*models.GamePlayer, error) {
	if gameID == "" {
		return nil, fmt.Errorf("game ID cannot be empty")
	}
	if creatorUserID == "" || opponentUserID == "" {
		return nil, fmt.Errorf("both player user IDs are required")
	}

	const query = `
		INSERT INTO game_players (id, game_id, user_id, player_order)
		VALUES ($1, $2, $3, 1), ($4, $2, $5, 2)
		RETURNING id, game_id, user_id, player_order, created_at, updated_at
	`

	rows, err := s.db.Query(ctx, query,
		uuid.New().String(), gameID, creatorUserID,
		uuid.New().String(), opponentUserID,
	)
	if err != nil {
		return nil, wrapPlayerInsertError(err, gameID)
	}
	defer rows.Close()

	var players []*models.GamePlayer
	for rows.Next() {
		var gp models.GamePlayer
		err := rows.Scan(
			&gp.ID,
			&gp.GameID,
			&gp.UserID,
			&gp.PlayerOrder,
			&gp.CreatedAt,
			&gp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, &gp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPlayerInsertError(err, gameID)
	}

	return players, nil
}

func wrapPlayerInsertError(err error, gameID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("duplicate seat for game %s: %s", gameID, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("invalid reference: %s", pgErr.Message)
		}
	}
	return fmt.Errorf("failed to create game players: %w", err)
}
