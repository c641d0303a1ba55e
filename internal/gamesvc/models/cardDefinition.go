package models

import "time"

// CardDefinition is static reference data, seeded independently of any game.
type CardDefinition struct {
	ID        string    `json:"id"`        // UUID primary key
	CardName  string    `json:"card_name"`
	BasePower int       `json:"base_power"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
