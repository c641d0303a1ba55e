package service

import "errors"

// Validation and state errors surface to the caller as 4xx responses;
// everything else is a persistence failure and surfaces as 5xx.
var (
	ErrOpponentRequired   = errors.New("opponent user id is required")
	ErrSelfPlayNotAllowed = errors.New("cannot create a game with yourself")
	ErrOpponentNotFound   = errors.New("opponent user not found")
	ErrGameCreationFailed = errors.New("failed to create game")

	ErrGameNotFound        = errors.New("game not found")
	ErrInvalidGameState    = errors.New("game cannot be initialized in its current status")
	ErrPlayerCountInvalid  = errors.New("game must have exactly two players to initialize")
	ErrCardPoolUnavailable = errors.New("could not fetch card definitions")
	ErrDeckExhausted       = errors.New("deck exhausted during high-card draw")
	ErrInsufficientCards   = errors.New("not enough cards left in deck to deal a hand")
	ErrPersistenceFailure  = errors.New("persistence failure")
)
