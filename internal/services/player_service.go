package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bowling-game/internal/ids"
	"bowling-game/internal/logging"
	"bowling-game/internal/models"
	"bowling-game/internal/repository"
)

// PlayerService is the name registry for players. It holds no game logic.
type PlayerService struct {
	repo repository.PlayerRepository
	ids  ids.Generator
	now  func() time.Time
}

func NewPlayerService(repo repository.PlayerRepository, gen ids.Generator) *PlayerService {
	return &PlayerService{
		repo: repo,
		ids:  gen,
		now:  time.Now,
	}
}

func (ps *PlayerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newGameError(ErrInvalidArgument, "", "Player name must not be empty.")
	}

	player := &models.Player{
		ID:        ps.ids.NewID(),
		Name:      name,
		CreatedAt: ps.now(),
	}
	if err := ps.repo.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("saving player %s: %w", player.ID, err)
	}

	logging.FromContext(ctx).Debugw("player created", "player_id", player.ID, "name", player.Name)
	return player, nil
}

func (ps *PlayerService) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	player, err := ps.repo.GetPlayer(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, newGameError(ErrNotFound, "", fmt.Sprintf("Player with ID %s not found", playerID))
	}
	if err != nil {
		return nil, fmt.Errorf("loading player %s: %w", playerID, err)
	}
	return player, nil
}

// GetPlayers looks up players in the given order and fails on the first
// unknown id.
func (ps *PlayerService) GetPlayers(ctx context.Context, playerIDs []string) ([]*models.Player, error) {
	players := make([]*models.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		player, err := ps.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}
