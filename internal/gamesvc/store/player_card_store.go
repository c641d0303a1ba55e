package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type PlayerCardStore struct {
	db *pgxpool.Pool
}

func NewPlayerCardStore(db *pgxpool.Pool) *PlayerCardStore {
	return &PlayerCardStore{db: db}
}

// DeleteByGameID clears every card instance of a game. Deck composition calls
// this first so re-running initialization never duplicates cards.
func (s *PlayerCardStore) DeleteByGameID(ctx context.Context, gameID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM player_cards WHERE game_id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete player cards for game %s: %w", gameID, err)
	}
	return nil
}

// BulkInsert writes freshly composed decks with COPY.
func (s *PlayerCardStore) BulkInsert(ctx context.Context, cards []*models.PlayerCard) error {
	rows := make([][]interface{}, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []interface{}{
			c.ID,
			c.GameID,
			c.OwnerPlayerID,
			c.CardDefinitionID,
			c.CurrentLocation,
			c.LocationIndex,
			c.IsFaceUp,
			c.CurrentPower,
		})
	}

	copied, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"player_cards"},
		[]string{"id", "game_id", "owner_player_id", "card_definition_id", "current_location", "location_index", "is_face_up", "current_power"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert player cards: %w", err)
	}
	if copied != int64(len(cards)) {
		return fmt.Errorf("player card insert wrote %d of %d rows", copied, len(cards))
	}

	return nil
}

// GetTopDeckCard reads the lowest-index deck card for a player, joined with
// its definition. Returns nil when the deck is empty.
func (s *PlayerCardStore) GetTopDeckCard(ctx context.Context, gameID, ownerPlayerID string) (*models.DrawnCard, error) {
	query := `
		SELECT pc.id, pc.card_definition_id, cd.card_name, cd.base_power
		FROM player_cards pc
		JOIN card_definitions cd ON cd.id = pc.card_definition_id
		WHERE pc.game_id = $1 AND pc.owner_player_id = $2 AND pc.current_location = $3
		ORDER BY pc.location_index ASC
		LIMIT 1
	`

	card := &models.DrawnCard{}
	err := s.db.QueryRow(ctx, query, gameID, ownerPlayerID, models.LocationDeck).Scan(
		&card.PlayerCardID,
		&card.CardDefinitionID,
		&card.CardName,
		&card.BasePower,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // deck is empty
		}
		return nil, fmt.Errorf("failed to read top deck card: %w", err)
	}

	return card, nil
}

// ListTopDeckCards returns the IDs of the n lowest-index deck cards.
func (s *PlayerCardStore) ListTopDeckCards(ctx context.Context, gameID, ownerPlayerID string, n int) ([]string, error) {
	query := `
		SELECT id
		FROM player_cards
		WHERE game_id = $1 AND owner_player_id = $2 AND current_location = $3
		ORDER BY location_index ASC
		LIMIT $4
	`

	rows, err := s.db.Query(ctx, query, gameID, ownerPlayerID, models.LocationDeck, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list top deck cards: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountDeck counts the cards a player still has in the deck zone.
func (s *PlayerCardStore) CountDeck(ctx context.Context, gameID, ownerPlayerID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM player_cards
		WHERE game_id = $1 AND owner_player_id = $2 AND current_location = $3
	`

	var count int
	err := s.db.QueryRow(ctx, query, gameID, ownerPlayerID, models.LocationDeck).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deck cards: %w", err)
	}

	return count, nil
}

// DiscardCards moves the given cards to the discard pile. The location index
// is cleared: discarded cards have no draw order.
func (s *PlayerCardStore) DiscardCards(ctx context.Context, playerCardIDs []string) error {
	return s.moveCards(ctx, playerCardIDs, models.LocationDiscarded)
}

// MoveToHand moves the given cards into their owner's hand.
func (s *PlayerCardStore) MoveToHand(ctx context.Context, playerCardIDs []string) error {
	return s.moveCards(ctx, playerCardIDs, models.LocationHand)
}

func (s *PlayerCardStore) moveCards(ctx context.Context, playerCardIDs []string, location string) error {
	if len(playerCardIDs) == 0 {
		return nil
	}

	query := `
		UPDATE player_cards
		SET current_location = $2, location_index = NULL, updated_at = now()
		WHERE id = ANY($1)
	`

	tag, err := s.db.Exec(ctx, query, playerCardIDs, location)
	if err != nil {
		return fmt.Errorf("failed to move cards to %s: %w", location, err)
	}
	if tag.RowsAffected() != int64(len(playerCardIDs)) {
		return fmt.Errorf("moved %d of %d cards to %s", tag.RowsAffected(), len(playerCardIDs), location)
	}

	return nil
}
