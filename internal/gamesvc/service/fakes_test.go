package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/simplextcg/duel-services/internal/gamesvc/models"
)

// memStore is an in-memory stand-in for every store interface the services
// consume. Operations run sequentially in tests, so no locking.
type memStore struct {
	games   map[string]*models.Game
	players map[string][]*models.GamePlayer
	users   map[string]*models.User
	pool    []*models.CardDefinition
	cards   []*models.PlayerCard

	nextID int

	failCreatePlayers   bool
	failUpdateGameState bool
	failListCardPool    bool
}

func newMemStore() *memStore {
	return &memStore{
		games:   make(map[string]*models.Game),
		players: make(map[string][]*models.GamePlayer),
		users:   make(map[string]*models.User),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) addUser(userID string) {
	m.users[userID] = &models.User{ID: userID, Name: userID}
}

// addPool seeds card definitions with the given base powers.
func (m *memStore) addPool(powers ...int) {
	for i, p := range powers {
		m.pool = append(m.pool, &models.CardDefinition{
			ID:        fmt.Sprintf("def-%d", i),
			CardName:  fmt.Sprintf("Card %d", i),
			BasePower: p,
		})
	}
}

// addDeckCard places one card at the bottom of a player's deck.
func (m *memStore) addDeckCard(gameID, ownerPlayerID, defID string, power int) {
	index := 0
	for _, c := range m.cards {
		if c.GameID == gameID && c.OwnerPlayerID == ownerPlayerID && c.CurrentLocation == models.LocationDeck {
			index++
		}
	}
	m.cards = append(m.cards, &models.PlayerCard{
		ID:               m.id("pc"),
		GameID:           gameID,
		OwnerPlayerID:    ownerPlayerID,
		CardDefinitionID: defID,
		CurrentLocation:  models.LocationDeck,
		LocationIndex:    sql.NullInt64{Int64: int64(index), Valid: true},
		CurrentPower:     power,
	})
}

func (m *memStore) deckCards(gameID, ownerPlayerID string) []*models.PlayerCard {
	var deck []*models.PlayerCard
	for _, c := range m.cards {
		if c.GameID == gameID && c.OwnerPlayerID == ownerPlayerID && c.CurrentLocation == models.LocationDeck {
			deck = append(deck, c)
		}
	}
	sort.Slice(deck, func(i, j int) bool {
		return deck[i].LocationIndex.Int64 < deck[j].LocationIndex.Int64
	})
	return deck
}

func (m *memStore) cardsIn(gameID, ownerPlayerID, location string) []*models.PlayerCard {
	var out []*models.PlayerCard
	for _, c := range m.cards {
		if c.GameID == gameID && c.OwnerPlayerID == ownerPlayerID && c.CurrentLocation == location {
			out = append(out, c)
		}
	}
	return out
}

func (m *memStore) defByID(defID string) *models.CardDefinition {
	for _, d := range m.pool {
		if d.ID == defID {
			return d
		}
	}
	return nil
}

// GameStore

func (m *memStore) CreateGame(_ context.Context, status string) (*models.Game, error) {
	g := &models.Game{ID: m.id("game"), Status: status}
	m.games[g.ID] = g
	return g, nil
}

func (m *memStore) GetGameByID(_ context.Context, gameID string) (*models.Game, error) {
	return m.games[gameID], nil
}

func (m *memStore) DeleteGame(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	return nil
}

func (m *memStore) UpdateGameState(_ context.Context, gameID, status, currentTurnPlayerID, turnPhase string) error {
	if m.failUpdateGameState {
		return errors.New("forced update failure")
	}
	g, ok := m.games[gameID]
	if !ok {
		return fmt.Errorf("no game row updated for %s", gameID)
	}
	g.Status = status
	g.CurrentTurnPlayerID = sql.NullString{String: currentTurnPlayerID, Valid: true}
	g.TurnPhase = sql.NullString{String: turnPhase, Valid: true}
	return nil
}

// GamePlayerStore

func (m *memStore) CreatePlayers(_ context.Context, gameID, creatorUserID, opponentUserID string) ([]*models.GamePlayer, error) {
	if m.failCreatePlayers {
		return nil, errors.New("forced player insert failure")
	}
	players := []*models.GamePlayer{
		{ID: m.id("gp"), GameID: gameID, UserID: creatorUserID, PlayerOrder: 1},
		{ID: m.id("gp"), GameID: gameID, UserID: opponentUserID, PlayerOrder: 2},
	}
	m.players[gameID] = players
	return players, nil
}

func (m *memStore) GetPlayersByGameID(_ context.Context, gameID string) ([]*models.GamePlayer, error) {
	return m.players[gameID], nil
}

// CardDefinitionStore

func (m *memStore) ListCardPool(_ context.Context, limit int) ([]*models.CardDefinition, error) {
	if m.failListCardPool {
		return nil, errors.New("forced pool read failure")
	}
	if len(m.pool) > limit {
		return m.pool[:limit], nil
	}
	return m.pool, nil
}

// PlayerCardStore

func (m *memStore) DeleteByGameID(_ context.Context, gameID string) error {
	var kept []*models.PlayerCard
	for _, c := range m.cards {
		if c.GameID != gameID {
			kept = append(kept, c)
		}
	}
	m.cards = kept
	return nil
}

func (m *memStore) BulkInsert(_ context.Context, cards []*models.PlayerCard) error {
	m.cards = append(m.cards, cards...)
	return nil
}

func (m *memStore) GetTopDeckCard(_ context.Context, gameID, ownerPlayerID string) (*models.DrawnCard, error) {
	deck := m.deckCards(gameID, ownerPlayerID)
	if len(deck) == 0 {
		return nil, nil
	}
	top := deck[0]
	name := top.CardDefinitionID
	power := top.CurrentPower
	if def := m.defByID(top.CardDefinitionID); def != nil {
		name = def.CardName
		power = def.BasePower
	}
	return &models.DrawnCard{
		PlayerCardID:     top.ID,
		CardDefinitionID: top.CardDefinitionID,
		CardName:         name,
		BasePower:        power,
	}, nil
}

func (m *memStore) ListTopDeckCards(_ context.Context, gameID, ownerPlayerID string, n int) ([]string, error) {
	deck := m.deckCards(gameID, ownerPlayerID)
	if len(deck) > n {
		deck = deck[:n]
	}
	ids := make([]string, 0, len(deck))
	for _, c := range deck {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (m *memStore) CountDeck(_ context.Context, gameID, ownerPlayerID string) (int, error) {
	return len(m.deckCards(gameID, ownerPlayerID)), nil
}

func (m *memStore) DiscardCards(_ context.Context, playerCardIDs []string) error {
	return m.moveCards(playerCardIDs, models.LocationDiscarded)
}

func (m *memStore) MoveToHand(_ context.Context, playerCardIDs []string) error {
	return m.moveCards(playerCardIDs, models.LocationHand)
}

func (m *memStore) moveCards(playerCardIDs []string, location string) error {
	moved := 0
	for _, id := range playerCardIDs {
		for _, c := range m.cards {
			if c.ID == id {
				c.CurrentLocation = location
				c.LocationIndex = sql.NullInt64{}
				moved++
			}
		}
	}
	if moved != len(playerCardIDs) {
		return fmt.Errorf("moved %d of %d cards", moved, len(playerCardIDs))
	}
	return nil
}

// UserStore

func (m *memStore) GetByID(_ context.Context, userID string) (*models.User, error) {
	return m.users[userID], nil
}
