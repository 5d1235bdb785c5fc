package services

import (
	"errors"

	"bowling-game/internal/scoring"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid game state")
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInvalidTurn         = errors.New("invalid turn")
	ErrPlayerNotInGame     = errors.New("player not in game")
	ErrInvalidArgument     = errors.New("invalid argument")

	ErrInvalidRoll  = scoring.ErrInvalidRoll
	ErrInvalidFrame = scoring.ErrInvalidFrame
)

// GameError is a caller-facing failure. Message is reported verbatim and
// Err identifies the kind for errors.Is.
type GameError struct {
	Err     error
	GameID  string
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func (e *GameError) Unwrap() error {
	return e.Err
}

func newGameError(kind error, gameID, message string) *GameError {
	return &GameError{Err: kind, GameID: gameID, Message: message}
}
