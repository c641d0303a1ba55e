package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplextcg/duel-services/internal/gamesvc/models"
	"github.com/simplextcg/duel-services/internal/random"
)

func newTestInitService(st *memStore, seed int64) *InitService {
	svc := NewInitService(st, st, st, st)
	svc.seedFn = func() (int64, error) { return seed, nil }
	return svc
}

// setupLobbyGame creates a lobby game between alice and bob.
func setupLobbyGame(t *testing.T, st *memStore) (*models.Game, []*models.GamePlayer) {
	t.Helper()
	ctx := context.Background()

	st.addUser("alice")
	st.addUser("bob")

	game, err := st.CreateGame(ctx, models.GameStatusLobby)
	require.NoError(t, err)

	players, err := st.CreatePlayers(ctx, game.ID, "alice", "bob")
	require.NoError(t, err)

	return game, players
}

func TestInitService_InitializeGame(t *testing.T) {
	t.Run("full initialization of a 28-card game", func(t *testing.T) {
		// Given: a lobby game and the standard pool with distinct powers
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		powers := make([]int, 28)
		for i := range powers {
			powers[i] = i + 1
		}
		st.addPool(powers...)
		svc := newTestInitService(st, 42)

		// When: the game is initialized
		firstPlayer, err := svc.InitializeGame(context.Background(), game.ID)

		// Then: one of the two players won the first turn
		require.NoError(t, err)
		require.Contains(t, []string{"alice", "bob"}, firstPlayer)

		// Then: the game is active in the DRAW phase with the winner on turn
		require.Equal(t, models.GameStatusActive, game.Status)
		require.Equal(t, firstPlayer, game.CurrentTurnPlayerID.String)
		require.Equal(t, models.TurnPhaseDraw, game.TurnPhase.String)

		// Then: each player holds 3 cards, spent at least one on the
		// high-card draw, and every card is accounted for
		for _, p := range players {
			hand := st.cardsIn(game.ID, p.ID, models.LocationHand)
			discard := st.cardsIn(game.ID, p.ID, models.LocationDiscarded)
			deck := st.cardsIn(game.ID, p.ID, models.LocationDeck)

			assert.Len(t, hand, 3)
			assert.GreaterOrEqual(t, len(discard), 1)
			assert.Equal(t, 28, len(hand)+len(discard)+len(deck))
			assert.Equal(t, 28-3-len(discard), len(deck))

			// hand and discard carry no draw order
			for _, c := range append(hand, discard...) {
				assert.False(t, c.LocationIndex.Valid)
			}
		}

		// Then: both players discarded the same number of draw rounds
		p1Discards := st.cardsIn(game.ID, players[0].ID, models.LocationDiscarded)
		p2Discards := st.cardsIn(game.ID, players[1].ID, models.LocationDiscarded)
		assert.Equal(t, len(p1Discards), len(p2Discards))
	})

	t.Run("unknown game", func(t *testing.T) {
		st := newMemStore()
		svc := newTestInitService(st, 1)

		_, err := svc.InitializeGame(context.Background(), "missing")

		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("rejects a game that is already active", func(t *testing.T) {
		st := newMemStore()
		game, _ := setupLobbyGame(t, st)
		game.Status = models.GameStatusActive
		svc := newTestInitService(st, 1)

		_, err := svc.InitializeGame(context.Background(), game.ID)

		require.ErrorIs(t, err, ErrInvalidGameState)
	})

	t.Run("allows re-initialization from initializing", func(t *testing.T) {
		st := newMemStore()
		game, _ := setupLobbyGame(t, st)
		game.Status = models.GameStatusInitializing
		st.addPool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
		svc := newTestInitService(st, 7)

		_, err := svc.InitializeGame(context.Background(), game.ID)

		require.NoError(t, err)
		require.Equal(t, models.GameStatusActive, game.Status)
	})

	t.Run("rejects a game without both seats", func(t *testing.T) {
		st := newMemStore()
		st.addUser("alice")
		game, err := st.CreateGame(context.Background(), models.GameStatusLobby)
		require.NoError(t, err)
		st.players[game.ID] = []*models.GamePlayer{
			{ID: "gp-1", GameID: game.ID, UserID: "alice", PlayerOrder: 1},
		}
		svc := newTestInitService(st, 1)

		_, err = svc.InitializeGame(context.Background(), game.ID)

		require.ErrorIs(t, err, ErrPlayerCountInvalid)
	})

	t.Run("fails without a card pool", func(t *testing.T) {
		st := newMemStore()
		game, _ := setupLobbyGame(t, st)
		svc := newTestInitService(st, 1)

		_, err := svc.InitializeGame(context.Background(), game.ID)

		require.ErrorIs(t, err, ErrCardPoolUnavailable)
	})

	t.Run("card pool read failure", func(t *testing.T) {
		st := newMemStore()
		game, _ := setupLobbyGame(t, st)
		st.failListCardPool = true
		svc := newTestInitService(st, 1)

		_, err := svc.InitializeGame(context.Background(), game.ID)

		require.ErrorIs(t, err, ErrCardPoolUnavailable)
	})

	t.Run("commit failure leaves the game in lobby", func(t *testing.T) {
		// Given: the final state update is going to fail
		st := newMemStore()
		game, _ := setupLobbyGame(t, st)
		st.addPool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		st.failUpdateGameState = true
		svc := newTestInitService(st, 3)

		// When: initialization runs
		_, err := svc.InitializeGame(context.Background(), game.ID)

		// Then: the failure surfaces and the status gate still permits a retry
		require.ErrorIs(t, err, ErrPersistenceFailure)
		require.Equal(t, models.GameStatusLobby, game.Status)
	})
}

func TestInitService_ComposeDecks(t *testing.T) {
	t.Run("each player gets a dense shuffled copy of the pool", func(t *testing.T) {
		// Given: a lobby game and an 8-card pool
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		st.addPool(1, 2, 3, 4, 5, 6, 7, 8)
		svc := newTestInitService(st, 99)

		// When: decks are composed
		rng := random.NewRand(99)
		err := svc.composeDecks(context.Background(), game.ID, players, st.pool, rng)
		require.NoError(t, err)

		// Then: every player owns one face-down deck card per definition,
		// with location indexes forming a dense permutation of 0..N-1
		for _, p := range players {
			deck := st.deckCards(game.ID, p.ID)
			require.Len(t, deck, len(st.pool))

			seenIndex := make(map[int64]bool)
			seenDef := make(map[string]bool)
			for _, c := range deck {
				require.True(t, c.LocationIndex.Valid)
				require.False(t, c.IsFaceUp)
				seenIndex[c.LocationIndex.Int64] = true
				seenDef[c.CardDefinitionID] = true

				def := st.defByID(c.CardDefinitionID)
				require.NotNil(t, def)
				require.Equal(t, def.BasePower, c.CurrentPower)
			}
			require.Len(t, seenIndex, len(st.pool))
			require.Len(t, seenDef, len(st.pool))
			require.True(t, seenIndex[0])
			require.True(t, seenIndex[int64(len(st.pool)-1)])
		}
	})

	t.Run("recomposing replaces instead of duplicating", func(t *testing.T) {
		// Given: decks already composed once
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		st.addPool(1, 2, 3, 4)
		svc := newTestInitService(st, 5)
		ctx := context.Background()

		require.NoError(t, svc.composeDecks(ctx, game.ID, players, st.pool, random.NewRand(5)))
		require.Len(t, st.cards, 8)

		// When: composition runs again
		require.NoError(t, svc.composeDecks(ctx, game.ID, players, st.pool, random.NewRand(6)))

		// Then: the total card count is unchanged
		require.Len(t, st.cards, 8)
	})
}

func TestInitService_ResolveFirstPlayer(t *testing.T) {
	ctx := context.Background()

	// setup builds a game whose decks are laid out card-by-card, top first.
	setup := func(t *testing.T, p1Powers, p2Powers []int) (*memStore, *InitService, *models.Game, *models.GamePlayer, *models.GamePlayer) {
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		for _, p := range p1Powers {
			st.addDeckCard(game.ID, players[0].ID, "", p)
		}
		for _, p := range p2Powers {
			st.addDeckCard(game.ID, players[1].ID, "", p)
		}
		return st, newTestInitService(st, 1), game, players[0], players[1]
	}

	t.Run("higher power wins the first round", func(t *testing.T) {
		st, svc, game, p1, p2 := setup(t, []int{5, 1}, []int{3, 1})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 2)

		require.NoError(t, err)
		require.Equal(t, p1, winner)

		// one card per player was spent
		require.Len(t, st.cardsIn(game.ID, p1.ID, models.LocationDiscarded), 1)
		require.Len(t, st.cardsIn(game.ID, p2.ID, models.LocationDiscarded), 1)
		require.Len(t, st.deckCards(game.ID, p1.ID), 1)
	})

	t.Run("tie redraws and the second round decides", func(t *testing.T) {
		// Given: equal top cards, then a 7 vs 2
		st, svc, game, p1, p2 := setup(t, []int{4, 7, 9}, []int{4, 2, 9})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 3)

		// Then: player 1 wins in round two and exactly 4 cards are spent
		require.NoError(t, err)
		require.Equal(t, p1, winner)
		discarded := len(st.cardsIn(game.ID, p1.ID, models.LocationDiscarded)) +
			len(st.cardsIn(game.ID, p2.ID, models.LocationDiscarded))
		require.Equal(t, 4, discarded)
	})

	t.Run("both decks exhausting on a tie defaults to player 1", func(t *testing.T) {
		_, svc, game, p1, p2 := setup(t, []int{6}, []int{6})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 1)

		require.NoError(t, err)
		require.Equal(t, p1, winner)
	})

	t.Run("player 2 wins by default when only player 1 runs out", func(t *testing.T) {
		_, svc, game, p1, p2 := setup(t, []int{6}, []int{6, 1})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 2)

		require.NoError(t, err)
		require.Equal(t, p2, winner)
	})

	t.Run("player 1 wins by default when only player 2 runs out", func(t *testing.T) {
		_, svc, game, p1, p2 := setup(t, []int{6, 1}, []int{6})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 2)

		require.NoError(t, err)
		require.Equal(t, p1, winner)
	})

	t.Run("iteration cap defaults to player 1", func(t *testing.T) {
		// Given: three all-tie rounds but a cap of two
		st, svc, game, p1, p2 := setup(t, []int{3, 3, 3}, []int{3, 3, 3})

		winner, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 2)

		require.NoError(t, err)
		require.Equal(t, p1, winner)
		// exactly two rounds ran before the cap
		require.Len(t, st.cardsIn(game.ID, p1.ID, models.LocationDiscarded), 2)
	})

	t.Run("an empty deck at draw time is an error", func(t *testing.T) {
		_, svc, game, p1, p2 := setup(t, nil, []int{5})

		_, err := svc.resolveFirstPlayer(ctx, game.ID, p1, p2, 1)

		require.ErrorIs(t, err, ErrDeckExhausted)
	})
}

func TestInitService_DealHands(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the top three deck cards into each hand", func(t *testing.T) {
		// Given: both players with 5 deck cards
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		for _, p := range players {
			for i := 0; i < 5; i++ {
				st.addDeckCard(game.ID, p.ID, "", i+1)
			}
		}
		svc := newTestInitService(st, 1)

		// When: hands are dealt
		err := svc.dealHands(ctx, game.ID, players, HandSize)

		// Then: 3 in hand without order, 2 left in deck
		require.NoError(t, err)
		for _, p := range players {
			hand := st.cardsIn(game.ID, p.ID, models.LocationHand)
			require.Len(t, hand, 3)
			for _, c := range hand {
				require.False(t, c.LocationIndex.Valid)
			}
			require.Len(t, st.deckCards(game.ID, p.ID), 2)
		}
	})

	t.Run("a short deck fails instead of dealing a partial hand", func(t *testing.T) {
		// Given: player 2's deck is down to 2 cards
		st := newMemStore()
		game, players := setupLobbyGame(t, st)
		for i := 0; i < 5; i++ {
			st.addDeckCard(game.ID, players[0].ID, "", i+1)
		}
		st.addDeckCard(game.ID, players[1].ID, "", 1)
		st.addDeckCard(game.ID, players[1].ID, "", 2)
		svc := newTestInitService(st, 1)

		err := svc.dealHands(ctx, game.ID, players, HandSize)

		require.ErrorIs(t, err, ErrInsufficientCards)
	})
}
