package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"bowling-game/internal/logging"
	"bowling-game/internal/models"
)

const (
	gamesBucket     = "games"
	playersBucket   = "players"
	// game id to the sequence number of its first save
	gameOrderBucket = "game_order"
)

type BoltRepository struct {
	db *bolt.DB
}

var _ Repository = (*BoltRepository)(nil)

func NewBoltRepository(ctx context.Context, path string) (*BoltRepository, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening bolt database %s", path)

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("creating connection DB: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{gamesBucket, playersBucket, gameOrderBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("update transaction error: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) put(bucket, key string, v interface{}) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucket)).Put([]byte(key), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}
	return nil
}

// get decodes the value under key and reports whether it existed.
func (r *BoltRepository) get(bucket, key string, v interface{}) (bool, error) {
	found := false
	if err := r.db.View(func(tx *bolt.Tx) error {
		bytes := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if bytes == nil {
			return nil
		}
		found = true
		return json.Unmarshal(bytes, v)
	}); err != nil {
		return false, fmt.Errorf("view transaction error: %w", err)
	}
	return found, nil
}

func (r *BoltRepository) SaveGame(ctx context.Context, game *models.Game) error {
	bytes, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		key := []byte(game.ID)
		games := tx.Bucket([]byte(gamesBucket))
		if games.Get(key) == nil {
			order := tx.Bucket([]byte(gameOrderBucket))
			seq, err := order.NextSequence()
			if err != nil {
				return fmt.Errorf("next sequence: %w", err)
			}
			if err := order.Put(key, itob(seq)); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
		}
		if err := games.Put(key, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}
	return nil
}

func (r *BoltRepository) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	found, err := r.get(gamesBucket, gameID, &game)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return nil, ErrGameNotFound
	}
	return &game, nil
}

func (r *BoltRepository) ListGames(ctx context.Context, state models.GameState) ([]*models.Game, error) {
	games := []*models.Game{}
	seqs := make(map[string]uint64)
	if err := r.db.View(func(tx *bolt.Tx) error {
		order := tx.Bucket([]byte(gameOrderBucket))
		return tx.Bucket([]byte(gamesBucket)).ForEach(func(k, v []byte) error {
			var game models.Game
			if err := json.Unmarshal(v, &game); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if state == "" || game.State == state {
				games = append(games, &game)
				if seq := order.Get(k); len(seq) == 8 {
					seqs[game.ID] = binary.BigEndian.Uint64(seq)
				}
			}
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.SliceStable(games, func(i, j int) bool {
		return seqs[games[i].ID] < seqs[games[j].ID]
	})
	return games, nil
}

func (r *BoltRepository) SavePlayer(ctx context.Context, player *models.Player) error {
	return r.put(playersBucket, player.ID, player)
}

func (r *BoltRepository) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	var player models.Player
	found, err := r.get(playersBucket, playerID, &player)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return nil, ErrPlayerNotFound
	}
	return &player, nil
}

func (r *BoltRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("error close DB connection: %w", err)
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
