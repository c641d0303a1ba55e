package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/gamesvc/models"
	"github.com/simplextcg/duel-services/internal/random"
)

const (
	// CardPoolSize is the standard pool every deck is composed from.
	CardPoolSize = 28
	// HandSize is the number of cards dealt to each player after the
	// high-card draw.
	HandSize = 3
)

// InitService runs the full game initialization protocol: compose both decks,
// resolve the first player with a high-card draw, deal opening hands, and
// commit the turn state. Deck composition is delete-then-insert, so the whole
// protocol can be retried while the game stays in lobby or initializing.
type InitService struct {
	gameStore   GameStore
	playerStore GamePlayerStore
	cardDefs    CardDefinitionStore
	playerCards PlayerCardStore

	// seedFn is swapped out in tests for reproducible shuffles.
	seedFn func() (int64, error)
}

func NewInitService(gameStore GameStore, playerStore GamePlayerStore,
	cardDefs CardDefinitionStore, playerCards PlayerCardStore) *InitService {
	return &InitService{
		gameStore:   gameStore,
		playerStore: playerStore,
		cardDefs:    cardDefs,
		playerCards: playerCards,
		seedFn:      random.NewSeed,
	}
}

// InitializeGame takes a lobby game to active and returns the user ID of the
// player who won the first turn.
func (s *InitService) InitializeGame(ctx context.Context, gameID string) (string, error) {
	if gameID == "" {
		return "", ErrGameNotFound
	}

	game, err := s.gameStore.GetGameByID(ctx, gameID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if game == nil {
		return "", ErrGameNotFound
	}
	if game.Status != models.GameStatusLobby && game.Status != models.GameStatusInitializing {
		return "", fmt.Errorf("%w: status is %q", ErrInvalidGameState, game.Status)
	}

	players, err := s.playerStore.GetPlayersByGameID(ctx, gameID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if len(players) != 2 {
		return "", fmt.Errorf("%w: found %d", ErrPlayerCountInvalid, len(players))
	}
	player1, player2 := players[0], players[1]

	pool, err := s.cardDefs.ListCardPool(ctx, CardPoolSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardPoolUnavailable, err)
	}
	if len(pool) == 0 {
		return "", ErrCardPoolUnavailable
	}

	seed, err := s.seedFn()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	rng := random.NewRand(seed)

	if err := s.composeDecks(ctx, gameID, players, pool, rng); err != nil {
		return "", err
	}

	firstPlayer, err := s.resolveFirstPlayer(ctx, gameID, player1, player2, len(pool))
	if err != nil {
		return "", err
	}
	log.Infof("game %s: high-card draw concluded, first player is %s (seat %d)",
		gameID, firstPlayer.UserID, firstPlayer.PlayerOrder)

	if err := s.dealHands(ctx, gameID, players, HandSize); err != nil {
		return "", err
	}

	err = s.gameStore.UpdateGameState(ctx, gameID, models.GameStatusActive,
		firstPlayer.UserID, models.TurnPhaseDraw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	return firstPlayer.UserID, nil
}

// composeDecks gives each player an independent uniformly-random permutation
// of the full card pool. Existing cards for the game are deleted first, which
// makes re-initialization idempotent.
func (s *InitService) composeDecks(ctx context.Context, gameID string,
	players []*models.GamePlayer, pool []*models.CardDefinition, rng *rand.Rand) error {

	if err := s.playerCards.DeleteByGameID(ctx, gameID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	cards := make([]*models.PlayerCard, 0, len(players)*len(pool))
	for _, player := range players {
		shuffled := make([]*models.CardDefinition, len(pool))
		copy(shuffled, pool)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for index, def := range shuffled {
			cards = append(cards, &models.PlayerCard{
				ID:               uuid.New().String(),
				GameID:           gameID,
				OwnerPlayerID:    player.ID,
				CardDefinitionID: def.ID,
				CurrentLocation:  models.LocationDeck,
				LocationIndex:    sql.NullInt64{Int64: int64(index), Valid: true},
				IsFaceUp:         false,
				CurrentPower:     def.BasePower,
			})
		}
	}

	if err := s.playerCards.BulkInsert(ctx, cards); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	return nil
}

// resolveFirstPlayer runs the high-card draw: both players draw their top
// deck card, both cards go to the discard pile, higher base power wins. Ties
// redraw until a deck runs out or the iteration cap is reached. Every card
// drawn here is spent and unavailable for the hand deal.
func (s *InitService) resolveFirstPlayer(ctx context.Context, gameID string,
	player1, player2 *models.GamePlayer, deckSize int) (*models.GamePlayer, error) {

	maxIterations := deckSize
	if maxIterations <= 0 {
		maxIterations = CardPoolSize
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		p1Card, err := s.drawTopCard(ctx, gameID, player1)
		if err != nil {
			return nil, err
		}
		p2Card, err := s.drawTopCard(ctx, gameID, player2)
		if err != nil {
			return nil, err
		}

		log.Infof("game %s high-card round %d: %s draws %s (power %d), %s draws %s (power %d)",
			gameID, iteration,
			player1.UserID, p1Card.CardName, p1Card.BasePower,
			player2.UserID, p2Card.CardName, p2Card.BasePower)

		// both drawn cards are spent regardless of the outcome
		err = s.playerCards.DiscardCards(ctx, []string{p1Card.PlayerCardID, p2Card.PlayerCardID})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		}

		if p1Card.BasePower > p2Card.BasePower {
			return player1, nil
		}
		if p2Card.BasePower > p1Card.BasePower {
			return player2, nil
		}

		// tie: check for deck exhaustion before redrawing
		p1Empty, err := s.deckEmpty(ctx, gameID, player1)
		if err != nil {
			return nil, err
		}
		p2Empty, err := s.deckEmpty(ctx, gameID, player2)
		if err != nil {
			return nil, err
		}

		switch {
		case p1Empty && p2Empty:
			log.Warnf("game %s: both decks exhausted during high-card tie-breaking, defaulting to player 1", gameID)
			return player1, nil
		case p1Empty:
			log.Warnf("game %s: player 1 deck exhausted during high-card tie-breaking, player 2 wins by default", gameID)
			return player2, nil
		case p2Empty:
			log.Warnf("game %s: player 2 deck exhausted during high-card tie-breaking, player 1 wins by default", gameID)
			return player1, nil
		}
	}

	// A full deck of ties should not happen with sane card data; the bound
	// keeps the loop finite either way.
	log.Warnf("game %s: high-card draw hit the %d-iteration cap without a winner, defaulting to player 1",
		gameID, maxIterations)
	return player1, nil
}

func (s *InitService) drawTopCard(ctx context.Context, gameID string, player *models.GamePlayer) (*models.DrawnCard, error) {
	card, err := s.playerCards.GetTopDeckCard(ctx, gameID, player.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: player %s (seat %d)", ErrDeckExhausted, player.UserID, player.PlayerOrder)
	}
	return card, nil
}

func (s *InitService) deckEmpty(ctx context.Context, gameID string, player *models.GamePlayer) (bool, error) {
	count, err := s.playerCards.CountDeck(ctx, gameID, player.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return count == 0, nil
}

// dealHands moves the top handSize cards of each player's remaining deck into
// their hand. A short deck fails the whole initialization rather than dealing
// a partial hand.
func (s *InitService) dealHands(ctx context.Context, gameID string,
	players []*models.GamePlayer, handSize int) error {

	for _, player := range players {
		ids, err := s.playerCards.ListTopDeckCards(ctx, gameID, player.ID, handSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		}
		if len(ids) < handSize {
			return fmt.Errorf("%w: player %s has %d, needs %d",
				ErrInsufficientCards, player.UserID, len(ids), handSize)
		}

		if err := s.playerCards.MoveToHand(ctx, ids); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		}
	}

	return nil
}
