package repository

import (
	"context"
	"regexp"

	_ "modernc.org/sqlite"
)

var placeholder = regexp.MustCompile(`\$\d+`)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL DEFAULT 'waiting',
			current_frame INTEGER NOT NULL DEFAULT 1,
			current_player_id TEXT NOT NULL DEFAULT '',
			players TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			started_at INTEGER,
			finished_at INTEGER,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_state ON games(state)`,
	},
	// an upsert keeps the row, and so its rowid
	insertOrder: "rowid",
	// queries are written with ordered, single-use $N placeholders
	rebind: func(query string) string {
		return placeholder.ReplaceAllString(query, "?")
	},
}

func NewSQLiteRepository(ctx context.Context, path string) (*SQLRepository, error) {
	r, err := openSQL(ctx, "sqlite", path, sqliteDialect)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	r.db.SetMaxOpenConns(1)
	return r, nil
}
