package repository

import (
	"context"
	"errors"

	"bowling-game/internal/models"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// GameRepository stores game snapshots by id. Implementations must not keep
// references to the games they are given or hand out.
type GameRepository interface {
	SaveGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	// ListGames returns games in the order they were first saved; an empty
	// state matches every game.
	ListGames(ctx context.Context, state models.GameState) ([]*models.Game, error)
}

type PlayerRepository interface {
	SavePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, playerID string) (*models.Player, error)
}

type Repository interface {
	GameRepository
	PlayerRepository
	Close() error
}
