package repository

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"bowling-game/internal/models"
)

// CachedPlayers is a read-through ARC cache in front of a PlayerRepository.
// Player names are looked up on every game read.
type CachedPlayers struct {
	next  PlayerRepository
	cache *lru.ARCCache
}

var _ PlayerRepository = (*CachedPlayers)(nil)

func NewCachedPlayers(next PlayerRepository, size int) (*CachedPlayers, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("lru new instance of lru arc cache: %w", err)
	}
	return &CachedPlayers{next: next, cache: c}, nil
}

func (c *CachedPlayers) SavePlayer(ctx context.Context, player *models.Player) error {
	if err := c.next.SavePlayer(ctx, player); err != nil {
		return err
	}
	c.cache.Add(player.ID, *player)
	return nil
}

func (c *CachedPlayers) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	if v, ok := c.cache.Get(playerID); ok {
		player := v.(models.Player)
		return &player, nil
	}

	player, err := c.next.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(playerID, *player)
	return player, nil
}

func (c *CachedPlayers) Len() int {
	return c.cache.Len()
}
