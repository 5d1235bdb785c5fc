package repository

import (
	"context"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id VARCHAR(64) PRIMARY KEY,
			state VARCHAR(20) NOT NULL DEFAULT 'waiting',
			current_frame INTEGER NOT NULL DEFAULT 1,
			current_player_id VARCHAR(64) NOT NULL DEFAULT '',
			players JSONB NOT NULL,
			created_at BIGINT NOT NULL,
			started_at BIGINT,
			finished_at BIGINT,
			updated_at BIGINT NOT NULL,
			seq BIGSERIAL
		)`,
		`ALTER TABLE games ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
		`CREATE TABLE IF NOT EXISTS players (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_state ON games(state)`,
	},
	insertOrder: "seq",
	rebind:      func(query string) string { return query },
}

func NewPostgresRepository(ctx context.Context, databaseURL string) (*SQLRepository, error) {
	return openSQL(ctx, "postgres", databaseURL, postgresDialect)
}
