package models

import (
	"database/sql"
	"time"
)

// Card zones. LocationIndex is only meaningful while the card sits in the deck.
const (
	LocationDeck      = "deck"
	LocationHand      = "hand"
	LocationDiscarded = "discarded"
)

// PlayerCard is one card instance bound to one game and one player.
type PlayerCard struct {
	ID               string        `json:"id"`                 // UUID primary key
	GameID           string        `json:"game_id"`            // FK to games(id)
	OwnerPlayerID    string        `json:"owner_player_id"`    // FK to game_players(id)
	CardDefinitionID string        `json:"card_definition_id"` // FK to card_definitions(id)
	CurrentLocation  string        `json:"current_location"`
	LocationIndex    sql.NullInt64 `json:"location_index"` // draw order within the deck, NULL outside it
	IsFaceUp         bool          `json:"is_face_up"`
	CurrentPower     int           `json:"current_power"` // starts at the definition's base power
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// DrawnCard is a deck-top card joined with its definition, as read during
// the high-card draw.
type DrawnCard struct {
	PlayerCardID     string `json:"player_card_id"`
	CardDefinitionID string `json:"card_definition_id"`
	CardName         string `json:"card_name"`
	BasePower        int    `json:"base_power"`
}
