package models

import (
	"database/sql"
	"time"
)

// Game lifecycle statuses. A game is created in 'lobby', moves to 'active'
// once initialization commits, and ends in 'finished'.
const (
	GameStatusLobby        = "lobby"
	GameStatusInitializing = "initializing"
	GameStatusActive       = "active"
	GameStatusFinished     = "finished"
)

// TurnPhaseDraw is the canonical start-of-turn phase set by initialization.
const TurnPhaseDraw = "DRAW"

type Game struct {
	ID                  string         `json:"id"`                     // UUID primary key
	Status              string         `json:"status"`
	CurrentTurnPlayerID sql.NullString `json:"current_turn_player_id"` // FK to users(id), set when the game goes active
	TurnPhase           sql.NullString `json:"turn_phase"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
