package service

import (
	"context"

	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

// Store interfaces consumed by the services. Satisfied by the pgx stores in
// internal/gamesvc/store and by in-memory fakes in tests.

type GameStore interface {
	CreateGame(ctx context.Context, status string) (*models.Game, error)
	GetGameByID(ctx context.Context, gameID string) (*models.Game, error)
	DeleteGame(ctx context.Context, gameID string) error
	UpdateGameState(ctx context.Context, gameID, status, currentTurnPlayerID, turnPhase string) error
}

type GamePlayerStore interface {
	CreatePlayers(ctx context.Context, gameID, creatorUserID, opponentUserID string) ([]*models.GamePlayer, error)
	GetPlayersByGameID(ctx context.Context, gameID string) ([]*models.GamePlayer, error)
}

type CardDefinitionStore interface {
	ListCardPool(ctx context.Context, limit int) ([]*models.CardDefinition, error)
}

type PlayerCardStore interface {
	DeleteByGameID(ctx context.Context, gameID string) error
	BulkInsert(ctx context.Context, cards []*models.PlayerCard) error
	GetTopDeckCard(ctx context.Context, gameID, ownerPlayerID string) (*models.DrawnCard, error)
	ListTopDeckCards(ctx context.Context, gameID, ownerPlayerID string, n int) ([]string, error)
	CountDeck(ctx context.Context, gameID, ownerPlayerID string) (int, error)
	DiscardCards(ctx context.Context, playerCardIDs []string) error
	MoveToHand(ctx context.Context, playerCardIDs []string) error
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}
