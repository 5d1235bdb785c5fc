package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bowling-game/internal/logging"
	"bowling-game/internal/models"
)

// dialect holds what differs between the SQL backends.
type dialect struct {
	name        string
	schema      []string
	// column that increases with each inserted game row
	insertOrder string
	rebind      func(query string) string
}

// SQLRepository keeps each game as one row with the roster encoded as JSON.
// Timestamps are stored as unix milliseconds.
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
}

var _ Repository = (*SQLRepository)(nil)

func openSQL(ctx context.Context, driverName, dsn string, d dialect) (*SQLRepository, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening %s database", d.name)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &SQLRepository{db: db, dialect: d}
	if err := r.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return r, nil
}

func (r *SQLRepository) createTables(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) SaveGame(ctx context.Context, game *models.Game) error {
	players, err := json.Marshal(game.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}

	query := `
		INSERT INTO games (id, state, current_frame, current_player_id, players, created_at, started_at, finished_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			current_frame = EXCLUDED.current_frame,
			current_player_id = EXCLUDED.current_player_id,
			players = EXCLUDED.players,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, r.dialect.rebind(query),
		game.ID,
		string(game.State),
		game.CurrentFrame,
		game.CurrentPlayerID,
		string(players),
		game.CreatedAt.UnixMilli(),
		nullMillis(game.StartedAt),
		nullMillis(game.FinishedAt),
		game.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID, err)
	}
	return nil
}

const gameColumns = `id, state, current_frame, current_player_id, players, created_at, started_at, finished_at, updated_at`

func (r *SQLRepository) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	game, err := scanGame(r.db.QueryRowContext(ctx, r.dialect.rebind(query), gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return game, nil
}

func (r *SQLRepository) ListGames(ctx context.Context, state models.GameState) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	var args []interface{}
	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, string(state))
	}
	query += ` ORDER BY ` + r.dialect.insertOrder

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []*models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (r *SQLRepository) SavePlayer(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(query), player.ID, player.Name, player.CreatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("save player %s: %w", player.ID, err)
	}
	return nil
}

func (r *SQLRepository) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	query := `SELECT id, name, created_at FROM players WHERE id = $1`
	var (
		player    models.Player
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), playerID).Scan(&player.ID, &player.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player %s: %w", playerID, err)
	}
	player.CreatedAt = time.UnixMilli(createdAt)
	return &player, nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row scanner) (*models.Game, error) {
	var (
		game                  models.Game
		state                 string
		players               []byte
		createdAt, updatedAt  int64
		startedAt, finishedAt sql.NullInt64
	)
	err := row.Scan(
		&game.ID, &state, &game.CurrentFrame, &game.CurrentPlayerID,
		&players, &createdAt, &startedAt, &finishedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(players, &game.Players); err != nil {
		return nil, fmt.Errorf("unmarshal players of game %s: %w", game.ID, err)
	}
	game.State = models.GameState(state)
	game.CreatedAt = time.UnixMilli(createdAt)
	game.UpdatedAt = time.UnixMilli(updatedAt)
	game.StartedAt = fromNullMillis(startedAt)
	game.FinishedAt = fromNullMillis(finishedAt)
	return &game, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}
