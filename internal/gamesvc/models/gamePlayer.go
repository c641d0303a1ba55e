package models

import "time"

type GamePlayer struct {
	ID          string    `json:"id"`           // UUID primary key
	GameID      string    `json:"game_id"`      // FK to games(id)
	UserID      string    `json:"user_id"`      // FK to users(id)
	PlayerOrder int       `json:"player_order"` // seat order, 1 (creator) or 2 (opponent), unique per game
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
