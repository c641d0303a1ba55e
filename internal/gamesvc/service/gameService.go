package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

type GameService struct {
	gameStore   GameStore
	playerStore GamePlayerStore
	userStore   UserStore
}

func NewGameService(gameStore GameStore, playerStore GamePlayerStore, userStore UserStore) *GameService {
	return &GameService{
		gameStore:   gameStore,
		playerStore: playerStore,
		userStore:   userStore,
	}
}

func (s *GameService) GetGameByID(ctx context.Context, gameID string) (*models.Game, error) {
	return s.gameStore.GetGameByID(ctx, gameID)
}

func (s *GameService) GetGamePlayers(ctx context.Context, gameID string) ([]*models.GamePlayer, error) {
	return s.playerStore.GetPlayersByGameID(ctx, gameID)
}

// CreateGame registers a new two-player game in the lobby. The creator takes
// seat 1 and the opponent seat 2. There is no multi-statement transaction
// here: if binding the players fails after the game row exists, the game row
// is deleted again as a best-effort compensating rollback.
func (s *GameService) CreateGame(ctx context.Context, creatorUserID, opponentUserID string) (string, error) {
	if opponentUserID == "" {
		return "", ErrOpponentRequired
	}
	if creatorUserID == opponentUserID {
		return "", ErrSelfPlayNotAllowed
	}

	opponent, err := s.userStore.GetByID(ctx, opponentUserID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGameCreationFailed, err)
	}
	if opponent == nil {
		return "", ErrOpponentNotFound
	}

	game, err := s.gameStore.CreateGame(ctx, models.GameStatusLobby)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGameCreationFailed, err)
	}

	if _, err := s.playerStore.CreatePlayers(ctx, game.ID, creatorUserID, opponentUserID); err != nil {
		// best-effort cleanup of the orphaned game row
		if delErr := s.gameStore.DeleteGame(ctx, game.ID); delErr != nil {
			log.Errorf("failed to clean up game %s after player insert failure: %v", game.ID, delErr)
		}
		return "", fmt.Errorf("%w: %v", ErrGameCreationFailed, err)
	}

	log.Infof("game %s created: creator %s (seat 1) vs %s (seat 2)", game.ID, creatorUserID, opponentUserID)

	return game.ID, nil
}
