package comm

import "encoding/json"

// WSMessage is the envelope exchanged between the socket relay and the game
// service over NATS, and between the relay and web clients.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "create-game", "initialize-game"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

type CreateGameRequest struct {
	UserID         string `json:"user_id"` // creator, bound to the socket session
	OpponentUserID string `json:"opponent_user_id"`
}

type CreateGameResult struct {
	Message string `json:"message"`
	GameID  string `json:"game_id"`
}

type InitializeGameRequest struct {
	GameID string `json:"game_id"`
}

type InitializeGameResult struct {
	Message           string `json:"message"`
	GameID            string `json:"game_id"`
	FirstPlayerUserID string `json:"first_player_user_id"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
