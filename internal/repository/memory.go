package repository

import (
	"context"
	"sync"

	"bowling-game/internal/models"
)

type InMemoryRepository struct {
	mu      sync.RWMutex
	games   map[string]*models.Game
	order   []string
	players map[string]models.Player
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		games:   make(map[string]*models.Game),
		players: make(map[string]models.Player),
	}
}

func (r *InMemoryRepository) SaveGame(ctx context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		r.order = append(r.order, game.ID)
	}
	r.games[game.ID] = game.Clone()
	return nil
}

func (r *InMemoryRepository) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return game.Clone(), nil
}

func (r *InMemoryRepository) ListGames(ctx context.Context, state models.GameState) ([]*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	games := make([]*models.Game, 0, len(r.order))
	for _, id := range r.order {
		game := r.games[id]
		if state == "" || game.State == state {
			games = append(games, game.Clone())
		}
	}
	return games, nil
}

func (r *InMemoryRepository) SavePlayer(ctx context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.ID] = *player
	return nil
}

func (r *InMemoryRepository) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &player, nil
}

func (r *InMemoryRepository) Close() error {
	return nil
}
